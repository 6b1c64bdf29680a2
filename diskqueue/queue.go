// Package diskqueue lets a storage engine use a shared log as if it were a
// local append-only disk queue.
//
// During recovery the engine drains the log through ReadNext. Afterwards it
// pushes, pops and commits as it would against a local queue; each Commit is
// paired with exactly one GetCommitMessage request issued by the log writer,
// strictly in FIFO order.
package diskqueue

import (
	"context"
	"errors"

	"github.com/jizhuozhi/go-future"
)

// DefaultBlockCapacity is the size of the blocks pushed bytes are gathered in.
const DefaultBlockCapacity = 16 << 10

var ErrClosed = errors.New("disk queue adapter is closed")

// Location is an addressable position in the queue. The adapter only ever
// produces and accepts locations with Hi == 0.
type Location struct {
	Hi uint64
	Lo uint64
}

// Queue is the contract the storage engine programs against.
type Queue interface {
	// ReadNext returns up to n bytes of recovered data in log order. It
	// returns fewer only when the log is exhausted, and nothing once every
	// recovered byte has been delivered.
	ReadNext(ctx context.Context, n int) ([]byte, error)

	// NextReadLocation returns the location recovery should resume from.
	NextReadLocation() Location

	// Push buffers contents until the next Commit.
	Push(contents []byte) Location

	// Pop records that nothing before upTo is needed anymore.
	Pop(upTo Location)

	// Commit hands the pushed data to the log writer. The returned future
	// resolves once the writer acknowledges it.
	Commit() *future.Future[struct{}]

	Err() *future.Future[struct{}]
	OnClosed() *future.Future[struct{}]

	Dispose()
	Close()
}

// Await waits for f, giving up when ctx is done. It starts no goroutine, so
// abandoning a future that never resolves leaks nothing but the callback.
func Await[T any](ctx context.Context, f *future.Future[T]) (T, error) {
	if f.Done() {
		return f.Get()
	}

	ch := make(chan struct {
		val T
		err error
	}, 1)
	f.Subscribe(func(val T, err error) {
		ch <- struct {
			val T
			err error
		}{val, err}
	})

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
