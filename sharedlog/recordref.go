package sharedlog

import "fmt"

// Version is a position in the shared log. Versions assigned to appended
// records are strictly increasing and start at 1.
type Version uint64

// Tag identifies one logical stream inside the shared log.
type Tag uint32

func (t Tag) String() string { return fmt.Sprintf("tag-%d", uint32(t)) }

// RecordRef locates a record in the underlying log.
// - Scalog: needs {ShardID, GSN}
// - memory / pebble: GSN is the version, ShardID=0
type RecordRef struct {
	GSN     uint64
	ShardID uint32
}

func ShardlessRef(gsn uint64) RecordRef             { return RecordRef{GSN: gsn} }
func ShardedRef(shard uint32, gsn uint64) RecordRef { return RecordRef{ShardID: shard, GSN: gsn} }

// Version returns the log version the reference points at.
func (r RecordRef) Version() Version { return Version(r.GSN) }
