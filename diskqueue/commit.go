package diskqueue

import (
	"bytes"
	"sync"
	"time"

	"github.com/chn0318/logqueue/telemetry"
	"github.com/jizhuozhi/go-future"
	"github.com/rs/zerolog/log"
)

// CommitMessage carries one commit from the storage engine to the log
// writer. The writer owns Blocks once it receives the message and must call
// Acknowledge or Fail exactly once.
type CommitMessage struct {
	Blocks     [][]byte
	PoppedUpTo uint64

	ack     *future.Promise[struct{}]
	once    sync.Once
	created time.Time
}

func newCommitMessage(blocks [][]byte, poppedUpTo uint64) *CommitMessage {
	return &CommitMessage{
		Blocks:     blocks,
		PoppedUpTo: poppedUpTo,
		ack:        future.NewPromise[struct{}](),
		created:    time.Now(),
	}
}

// Size returns the number of pushed bytes the message carries.
func (m *CommitMessage) Size() int {
	n := 0
	for _, b := range m.Blocks {
		n += len(b)
	}
	return n
}

// Bytes returns the pushed data as one contiguous buffer.
func (m *CommitMessage) Bytes() []byte {
	return bytes.Join(m.Blocks, nil)
}

// Acknowledge unblocks the committer.
func (m *CommitMessage) Acknowledge() {
	m.settle(nil)
}

// Fail resolves the committer's future with err.
func (m *CommitMessage) Fail(err error) {
	m.settle(err)
}

func (m *CommitMessage) settle(err error) {
	m.once.Do(func() {
		telemetry.CommitAckSeconds.Observe(time.Since(m.created).Seconds())
		m.ack.Set(struct{}{}, err)
	})
}

// GetCommitMessage queues a request that the next unmatched Commit fulfils.
// Requests may be issued ahead of the commits they pair with.
func (a *Adapter) GetCommitMessage() *future.Future[*CommitMessage] {
	a.checkOpen("GetCommitMessage")
	f, err := a.RequestCommitMessage()
	if err != nil {
		return future.Done2[*CommitMessage](nil, err)
	}
	return f
}

// RequestCommitMessage is GetCommitMessage for a consumer that may race with
// Close: on a closed adapter it returns ErrClosed instead of panicking. A
// request queued before Close is failed with ErrClosed by Close.
func (a *Adapter) RequestCommitMessage() (*future.Future[*CommitMessage], error) {
	p := future.NewPromise[*CommitMessage]()

	a.mu.Lock()
	if a.closed.Load() {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	a.requests = append(a.requests, p)
	pending := len(a.requests)
	a.mu.Unlock()

	telemetry.PendingCommitRequests.Set(float64(pending))
	return p.Future(), nil
}

// Commit pairs the pushed data and popped watermark with the oldest pending
// request. Calling it with no pending request is a contract violation.
func (a *Adapter) Commit() *future.Future[struct{}] {
	a.checkOpen("Commit")
	p, msg, pending := a.takeRequest()

	telemetry.PendingCommitRequests.Set(float64(pending))
	telemetry.CommitsTotal.Inc()
	p.Set(msg, nil)

	return msg.ack.Future()
}

func (a *Adapter) takeRequest() (*future.Promise[*CommitMessage], *CommitMessage, int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.requests) == 0 {
		log.Panic().Stringer("tag", a.tag).Int("pending_bytes", a.pushed.size).Msg("Commit without a pending commit request")
	}

	p := a.requests[0]
	a.requests[0] = nil
	a.requests = a.requests[1:]

	msg := newCommitMessage(a.pushed.detach(), a.poppedUpTo)
	return p, msg, len(a.requests)
}
