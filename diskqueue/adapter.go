package diskqueue

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/chn0318/logqueue/sharedlog"
	"github.com/chn0318/logqueue/telemetry"
	"github.com/jizhuozhi/go-future"
	"github.com/rs/zerolog/log"
)

type options struct {
	enableRecovery bool
	blockCapacity  int
}

type Option func(*options)

// WithoutRecovery opens the adapter in write-only mode: ReadNext returns
// nothing and no cursor is opened.
func WithoutRecovery() Option {
	return func(o *options) { o.enableRecovery = false }
}

// WithBlockCapacity sets the capacity of the blocks pushed data is stored in.
func WithBlockCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockCapacity = n
		}
	}
}

// Adapter serves a shared log through the Queue contract.
//
// ReadNext must not be called concurrently with itself. The write side
// (Push, Pop, Commit, GetCommitMessage, SetNextVersion) may be used from
// the storage engine and the log writer concurrently.
type Adapter struct {
	tag            sharedlog.Tag
	enableRecovery bool

	// Recovery state, owned by ReadNext.
	recoveryMu       sync.Mutex
	logSystem        sharedlog.LogSystem
	cursor           sharedlog.Cursor
	recovery         recoveryQueue
	recoveryLoc      sharedlog.Version
	recoveryQueueLoc sharedlog.Version

	// Write state.
	mu         sync.Mutex
	pushed     pushedData
	poppedUpTo uint64
	nextCommit uint64
	requests   []*future.Promise[*CommitMessage]

	closed atomic.Bool
}

var _ Queue = (*Adapter)(nil)

// Open binds an adapter to the stream identified by tag. Unless
// WithoutRecovery is given, a cursor is opened at the beginning of the
// stream for ReadNext to drain.
func Open(logSystem sharedlog.LogSystem, tag sharedlog.Tag, opts ...Option) (*Adapter, error) {
	o := options{enableRecovery: true, blockCapacity: DefaultBlockCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Adapter{
		tag:              tag,
		enableRecovery:   o.enableRecovery,
		recoveryLoc:      1,
		recoveryQueueLoc: 1,
		nextCommit:       1,
		pushed:           pushedData{blockCapacity: o.blockCapacity},
	}
	if o.enableRecovery {
		cursor, err := logSystem.Peek(tag, 0)
		if err != nil {
			return nil, err
		}
		a.logSystem = logSystem
		a.cursor = cursor
	}

	log.Info().
		Stringer("tag", tag).
		Bool("recovery", o.enableRecovery).
		Int("block_capacity", o.blockCapacity).
		Msg("Opened disk queue adapter")
	return a, nil
}

// Err never resolves with a failure; failures surface through ReadNext and
// the futures returned by Commit.
func (a *Adapter) Err() *future.Future[struct{}] {
	a.checkOpen("Err")
	return future.Done(struct{}{})
}

func (a *Adapter) OnClosed() *future.Future[struct{}] {
	a.checkOpen("OnClosed")
	return future.Done(struct{}{})
}

// Dispose destroys the adapter. The adapter must not be used afterwards.
func (a *Adapter) Dispose() { a.destroy("Dispose") }

// Close destroys the adapter. The adapter must not be used afterwards.
func (a *Adapter) Close() { a.destroy("Close") }

func (a *Adapter) destroy(op string) {
	if !a.closed.CompareAndSwap(false, true) {
		log.Panic().Err(ErrClosed).Str("op", op).Stringer("tag", a.tag).Msg("Disk queue adapter destroyed twice")
	}

	a.recoveryMu.Lock()
	a.releaseLogSystem()
	a.recovery = recoveryQueue{}
	a.recoveryMu.Unlock()

	a.mu.Lock()
	requests := a.requests
	a.requests = nil
	a.pushed.reset()
	a.mu.Unlock()

	telemetry.PendingCommitRequests.Set(0)
	for _, p := range requests {
		p.Set(nil, ErrClosed)
	}

	log.Info().Stringer("tag", a.tag).Int("abandoned_requests", len(requests)).Msg("Closed disk queue adapter")
}

// releaseLogSystem drops the log system and closes the cursor so their
// resources can be reclaimed. Callers hold recoveryMu.
func (a *Adapter) releaseLogSystem() {
	if c, ok := a.cursor.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Stringer("tag", a.tag).Msg("Failed to close recovery cursor")
		}
	}
	a.cursor = nil
	a.logSystem = nil
}

func (a *Adapter) checkOpen(op string) {
	if a.closed.Load() {
		log.Panic().Err(ErrClosed).Str("op", op).Stringer("tag", a.tag).Msg("Disk queue adapter used after close")
	}
}
