package pebblelog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/chn0318/logqueue/sharedlog"
	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Key layout
const (
	prefixLog = "/log/"    // /log/{tag:08x}/{version:016x} -> msgpack Record
	keyTail   = "/logtail" // last assigned version, 8 bytes little endian
)

var ErrClosed = errors.New("pebble log is closed")

// PebbleLog is a durable shared log. It implements both sharedlog.SharedLog
// and sharedlog.LogSystem.
type PebbleLog struct {
	db    *pebble.DB
	path  string
	batch int

	mu       sync.RWMutex
	tail     sharedlog.Version
	notifyCh chan struct{}
	closed   bool
}

// Open creates or opens a log under dataDir. batch bounds the number of
// messages a cursor buffers per fetch.
func Open(dataDir string, batch int) (*PebbleLog, error) {
	logPath := filepath.Join(dataDir, "sharedlog")

	db, err := pebble.Open(logPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open shared log at %s: %w", logPath, err)
	}

	l := &PebbleLog{
		db:       db,
		path:     logPath,
		batch:    batch,
		notifyCh: make(chan struct{}),
	}
	if err := l.loadTail(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load log tail: %w", err)
	}

	log.Info().Str("path", logPath).Uint64("tail", uint64(l.tail)).Msg("Opened shared log")
	return l, nil
}

func (l *PebbleLog) loadTail() error {
	val, closer, err := l.db.Get([]byte(keyTail))
	if err == pebble.ErrNotFound {
		l.tail = 0
		return nil
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	if len(val) != 8 {
		return fmt.Errorf("invalid tail value length: %d", len(val))
	}
	l.tail = sharedlog.Version(binary.LittleEndian.Uint64(val))
	return nil
}

func (l *PebbleLog) Append(_ context.Context, tag sharedlog.Tag, payload []byte) (sharedlog.RecordRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return sharedlog.RecordRef{}, ErrClosed
	}

	version := l.tail + 1
	val, err := msgpack.Marshal(&sharedlog.Record{Tag: tag, Version: version, Payload: payload})
	if err != nil {
		return sharedlog.RecordRef{}, fmt.Errorf("failed to marshal record: %w", err)
	}

	batch := l.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(recordKey(tag, version), val, nil); err != nil {
		return sharedlog.RecordRef{}, fmt.Errorf("failed to write record: %w", err)
	}
	tailBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(tailBuf, uint64(version))
	if err := batch.Set([]byte(keyTail), tailBuf, nil); err != nil {
		return sharedlog.RecordRef{}, fmt.Errorf("failed to update tail: %w", err)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return sharedlog.RecordRef{}, fmt.Errorf("failed to commit batch: %w", err)
	}

	// Only advance the in-memory tail after the batch is durable.
	l.tail = version
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})

	return sharedlog.ShardlessRef(uint64(version)), nil
}

func (l *PebbleLog) Pop(_ context.Context, tag sharedlog.Tag, upTo sharedlog.Version) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	if err := l.db.DeleteRange(recordKey(tag, 0), recordKey(tag, upTo), pebble.Sync); err != nil {
		return fmt.Errorf("failed to pop %s below %d: %w", tag, upTo, err)
	}
	log.Debug().Stringer("tag", tag).Uint64("up_to", uint64(upTo)).Msg("Popped shared log")
	return nil
}

func (l *PebbleLog) End() sharedlog.Version {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tail + 1
}

func (l *PebbleLog) Changed() <-chan struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.notifyCh
}

func (l *PebbleLog) ReadRange(tag sharedlog.Tag, from, to sharedlog.Version, limit int) ([]sharedlog.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrClosed
	}

	lower := recordKey(tag, from)
	iter, err := l.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: recordKey(tag, to),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var recs []sharedlog.Record
	for iter.SeekGE(lower); iter.Valid() && len(recs) < limit; iter.Next() {
		val, err := iter.ValueAndErr()
		if err != nil {
			return nil, err
		}
		var rec sharedlog.Record
		if err := msgpack.Unmarshal(val, &rec); err != nil {
			return nil, fmt.Errorf("corrupted record at %q: %w", iter.Key(), err)
		}
		recs = append(recs, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (l *PebbleLog) Peek(tag sharedlog.Tag, begin sharedlog.Version) (sharedlog.Cursor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrClosed
	}
	return sharedlog.NewCursor(l, tag, begin, l.batch), nil
}

// Close closes the Pebble database.
func (l *PebbleLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.closed = true
	return l.db.Close()
}

func recordKey(tag sharedlog.Tag, version sharedlog.Version) []byte {
	return []byte(fmt.Sprintf("%s%08x/%016x", prefixLog, uint32(tag), uint64(version)))
}
