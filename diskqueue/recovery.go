package diskqueue

import (
	"context"

	"github.com/chn0318/logqueue/telemetry"
	"github.com/rs/zerolog/log"
)

// recoveryQueue holds messages pulled from the log that the reader has not
// consumed yet. Buffers are owned by the queue; after coalesce it holds at
// most one.
type recoveryQueue struct {
	bufs [][]byte
	size int
}

func (q *recoveryQueue) push(b []byte) {
	q.bufs = append(q.bufs, b)
	q.size += len(b)
}

func (q *recoveryQueue) coalesce() {
	if len(q.bufs) <= 1 {
		return
	}
	joined := make([]byte, 0, q.size)
	for _, b := range q.bufs {
		joined = append(joined, b...)
	}
	q.bufs = append(q.bufs[:0], joined)
}

// take removes and returns up to n bytes from the front of the queue.
func (q *recoveryQueue) take(n int) []byte {
	q.coalesce()
	if q.size == 0 {
		return nil
	}

	head := q.bufs[0]
	n = min(n, len(head))
	// The remainder is only ever sliced or copied, never written, so the
	// caller may keep the prefix. The cap limit stops appends from reaching it.
	out := head[:n:n]
	q.size -= n
	if q.size == 0 {
		q.bufs = nil
	} else {
		q.bufs[0] = head[n:]
	}
	return out
}

// ReadNext pulls from the log until n bytes are buffered or the end of the
// log is reached, then returns up to n bytes from the front of the buffer.
// A negative n reads nothing.
func (a *Adapter) ReadNext(ctx context.Context, n int) ([]byte, error) {
	a.checkOpen("ReadNext")
	n = max(n, 0)
	if !a.enableRecovery {
		return nil, nil
	}

	a.recoveryMu.Lock()
	defer a.recoveryMu.Unlock()

	for a.recovery.size < n && a.logSystem != nil {
		end := a.logSystem.End()
		if a.recoveryLoc == end {
			// Recovery completes once the buffered data is consumed.
			log.Debug().
				Stringer("tag", a.tag).
				Int("queue", len(a.recovery.bufs)).
				Int("bytes", n).
				Uint64("loc", uint64(a.recoveryLoc)).
				Uint64("end", uint64(end)).
				Msg("Recovery reached end of log")
			a.releaseLogSystem()
			break
		}

		if !a.cursor.HasMessage() {
			if err := a.cursor.GetMore(ctx); err != nil {
				return nil, err
			}
			log.Debug().
				Stringer("tag", a.tag).
				Int("queue", len(a.recovery.bufs)).
				Int("bytes", n).
				Uint64("loc", uint64(a.recoveryLoc)).
				Uint64("end", uint64(a.logSystem.End())).
				Msg("Recovery fetched more")
			if a.recovery.size == 0 {
				a.recoveryQueueLoc = a.recoveryLoc
			}
			if !a.cursor.HasMessage() {
				a.recoveryLoc = a.cursor.Version()
				continue
			}
		}

		a.recovery.push(append([]byte(nil), a.cursor.Message()...))
		telemetry.RecoveryMessagesTotal.Inc()
		a.cursor.NextMessage()
		if !a.cursor.HasMessage() {
			a.recoveryLoc = a.cursor.Version()
		}
	}

	out := a.recovery.take(n)
	telemetry.RecoveryBytesTotal.Add(float64(len(out)))
	return out, nil
}

// NextReadLocation returns the version recovery should resume from: the
// position at which the data currently being handed out started to be
// buffered.
func (a *Adapter) NextReadLocation() Location {
	a.checkOpen("NextReadLocation")
	a.recoveryMu.Lock()
	defer a.recoveryMu.Unlock()
	return Location{Lo: uint64(a.recoveryQueueLoc)}
}

// RecoveryDone reports whether the log has been drained and released.
func (a *Adapter) RecoveryDone() bool {
	a.checkOpen("RecoveryDone")
	a.recoveryMu.Lock()
	defer a.recoveryMu.Unlock()
	return !a.enableRecovery || (a.logSystem == nil && a.recovery.size == 0)
}
