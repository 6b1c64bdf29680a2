package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/chn0318/logqueue/queueserver"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC server address")
	chunk := flag.Uint("chunk", 4096, "bytes per ReadNext call")
	flag.Parse()

	conn, err := grpc.NewClient(*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("dial error")
	}
	defer conn.Close()

	client := queueserver.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Msg("=== Recovery ===")
	recovered, err := client.Drain(ctx, uint32(*chunk))
	if err != nil {
		log.Fatal().Err(err).Msg("ReadNext error")
	}
	loc, err := client.NextReadLocation(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("NextReadLocation error")
	}
	log.Info().Int("bytes", recovered).Uint64("resume_from", loc).Msg("Recovery complete")

	log.Info().Msg("=== Push / Commit ===")
	for _, v := range []string{"v1", "v2", "v3"} {
		if _, err := client.Push(ctx, []byte(v)); err != nil {
			log.Fatal().Err(err).Msg("Push error")
		}
	}
	if err := client.Pop(ctx, loc); err != nil {
		log.Fatal().Err(err).Msg("Pop error")
	}
	if err := client.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("Commit error")
	}

	committed, err := client.Status(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Status error")
	}
	log.Info().Uint64("version", committed).Msg("Commit OK")
}
