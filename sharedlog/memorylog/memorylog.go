package memorylog

import (
	"context"
	"sort"
	"sync"

	"github.com/chn0318/logqueue/sharedlog"
)

// MemoryLog keeps every tag's records in memory. It implements both
// sharedlog.SharedLog and sharedlog.LogSystem.
type MemoryLog struct {
	recs     map[sharedlog.Tag][]sharedlog.Record
	tail     sharedlog.Version
	notifyCh chan struct{}
	batch    int
	mu       sync.RWMutex
}

func NewMemoryLog() *MemoryLog {
	return NewMemoryLogWithBatch(sharedlog.DefaultPeekBatch)
}

// NewMemoryLogWithBatch returns a log whose cursors buffer at most batch
// messages per fetch.
func NewMemoryLogWithBatch(batch int) *MemoryLog {
	return &MemoryLog{
		recs:     make(map[sharedlog.Tag][]sharedlog.Record),
		notifyCh: make(chan struct{}),
		batch:    batch,
	}
}

func (l *MemoryLog) Append(_ context.Context, tag sharedlog.Tag, payload []byte) (sharedlog.RecordRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tail++
	l.recs[tag] = append(l.recs[tag], sharedlog.Record{
		Tag:     tag,
		Version: l.tail,
		Payload: append([]byte(nil), payload...),
	})
	l.broadcastLocked()

	return sharedlog.ShardlessRef(uint64(l.tail)), nil
}

// Advance moves the end of the log forward without writing to any tag, the
// way a commit for other streams would.
func (l *MemoryLog) Advance(n int) sharedlog.Version {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tail += sharedlog.Version(n)
	l.broadcastLocked()
	return l.tail
}

func (l *MemoryLog) Pop(_ context.Context, tag sharedlog.Tag, upTo sharedlog.Version) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs := l.recs[tag]
	i := sort.Search(len(recs), func(i int) bool { return recs[i].Version >= upTo })
	l.recs[tag] = append([]sharedlog.Record(nil), recs[i:]...)
	return nil
}

func (l *MemoryLog) End() sharedlog.Version {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tail + 1
}

func (l *MemoryLog) Changed() <-chan struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.notifyCh
}

func (l *MemoryLog) ReadRange(tag sharedlog.Tag, from, to sharedlog.Version, limit int) ([]sharedlog.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	recs := l.recs[tag]
	i := sort.Search(len(recs), func(i int) bool { return recs[i].Version >= from })
	out := make([]sharedlog.Record, 0, min(limit, len(recs)-i))
	for ; i < len(recs) && len(out) < limit; i++ {
		if recs[i].Version >= to {
			break
		}
		out = append(out, recs[i])
	}
	return out, nil
}

func (l *MemoryLog) Peek(tag sharedlog.Tag, begin sharedlog.Version) (sharedlog.Cursor, error) {
	return sharedlog.NewCursor(l, tag, begin, l.batch), nil
}

// Tail returns the largest version assigned so far.
func (l *MemoryLog) Tail() sharedlog.Version { l.mu.RLock(); defer l.mu.RUnlock(); return l.tail }

func (l *MemoryLog) broadcastLocked() {
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
}
