package sharedlog

import (
	"context"
)

// Record is one message of a logical stream stored in the shared log.
type Record struct {
	Tag     Tag     `msgpack:"tag" json:"tag"`
	Version Version `msgpack:"version" json:"version"`
	Payload []byte  `msgpack:"payload" json:"payload"`
}

// SharedLog defines the write side of an append-only shared log system.
// Implementations can be backed by memory, Pebble, Scalog, or other log-based systems.
type SharedLog interface {
	// Append appends payload as the next record of the tag's stream.
	// Returns the reference (and thereby the version) assigned to it.
	Append(ctx context.Context, tag Tag, payload []byte) (RecordRef, error)

	// Pop discards every record of the tag with a version below upTo.
	// Popping is advisory; implementations may trim lazily or not at all.
	Pop(ctx context.Context, tag Tag, upTo Version) error
}

// LogSystem is the read side a recovering consumer peeks through.
type LogSystem interface {
	// End returns the exclusive upper bound of valid log content.
	End() Version

	// Peek opens a cursor over the tag's records starting at begin.
	Peek(tag Tag, begin Version) (Cursor, error)
}

// Cursor advances over the versioned messages of one tag.
//
// A cursor buffers a batch of messages at a time. When HasMessage is false,
// GetMore blocks until more messages are buffered or the cursor has advanced
// its version without finding any (a gap before the end of the log).
type Cursor interface {
	HasMessage() bool
	GetMore(ctx context.Context) error
	// Message returns the current message. Only valid while HasMessage is true;
	// the returned slice must not be retained across NextMessage or GetMore.
	Message() []byte
	NextMessage()
	// Version returns the version of the current message, or when there is
	// none, the version the cursor will read from next.
	Version() Version
}
