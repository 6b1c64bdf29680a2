package scalog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/chn0318/logqueue/sharedlog"
	"github.com/chn0318/scalog/client"
	"github.com/chn0318/scalog/pkg/address"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultNumClients = 4

// ScalogSystem appends records to Scalog through a round-robin pool of
// clients. Scalog has no per-tag peek, so it only serves write-only queues.
type ScalogSystem struct {
	clients []*client.Client

	mu   sync.Mutex
	next int
}

func NewScalogSystem() (*ScalogSystem, error) {
	numReplica := int32(viper.GetInt("data-replication-factor"))
	discPort := uint16(viper.GetInt("disc-port"))
	discIp := viper.GetString("disc-ip")
	discAddr := address.NewGeneralDiscAddr(discIp, discPort)
	dataPort := uint16(viper.GetInt("data-port"))
	dataAddr := address.NewGeneralDataAddr("data-%v-%v-ip", numReplica, dataPort)
	numClients := viper.GetInt("scalog-clients")
	if numClients <= 0 {
		numClients = defaultNumClients
	}

	clients := make([]*client.Client, 0, numClients)
	for i := 0; i < numClients; i++ {
		c, err := client.NewClient(dataAddr, discAddr, numReplica)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	log.Info().Str("disc_ip", discIp).Int("clients", numClients).Msg("Connected to scalog")
	return &ScalogSystem{
		clients: clients,
	}, nil
}

func (s *ScalogSystem) pickClient() *client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.clients[s.next]
	s.next = (s.next + 1) % len(s.clients)
	return c
}

func (s *ScalogSystem) Append(_ context.Context, tag sharedlog.Tag, payload []byte) (sharedlog.RecordRef, error) {
	data, err := json.Marshal(sharedlog.Record{Tag: tag, Payload: payload})
	if err != nil {
		return sharedlog.RecordRef{}, err
	}

	c := s.pickClient()

	gsn, sid, err := c.AppendOne(string(data))
	if err != nil {
		return sharedlog.RecordRef{}, err
	}

	return sharedlog.RecordRef{
		GSN:     uint64(gsn),
		ShardID: uint32(sid),
	}, nil
}

// Pop is a no-op: the scalog client does not expose trimming.
func (s *ScalogSystem) Pop(_ context.Context, tag sharedlog.Tag, upTo sharedlog.Version) error {
	log.Debug().Stringer("tag", tag).Uint64("up_to", uint64(upTo)).Msg("Ignoring pop on scalog")
	return nil
}
