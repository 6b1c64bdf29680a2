package mapservice

import (
	"sync"

	"github.com/chn0318/logqueue/sharedlog"
)

// KeyMeta stores where a tag's latest commit landed, the commit version,
// and the popped watermark that travelled with it.
type KeyMeta struct {
	Ref        sharedlog.RecordRef
	CommitGSN  uint64
	PoppedUpTo uint64
}

// CommitEntry describes a single commit applied for one tag.
type CommitEntry struct {
	Tag        sharedlog.Tag
	Ref        sharedlog.RecordRef
	PoppedUpTo uint64
}

// MapService is an in-memory index of the latest commit per tag.
type MapService struct {
	mu sync.RWMutex
	m  map[sharedlog.Tag]KeyMeta

	// largest commit_gsn applied so far
	maxCommitGSN uint64
}

// NewMapService creates a new in-memory MapService.
func NewMapService() *MapService {
	return &MapService{
		m: make(map[sharedlog.Tag]KeyMeta),
	}
}

// ApplyCommit applies a batch of commit entries atomically.
//
// For each entry, the reference is replaced only when commitGSN is larger
// than the tag's current CommitGSN. The popped watermark only moves forward
// regardless of ordering.
func (s *MapService) ApplyCommit(commitGSN uint64, entries []CommitEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if commitGSN > s.maxCommitGSN {
		s.maxCommitGSN = commitGSN
	}
	for _, e := range entries {
		meta, ok := s.m[e.Tag]
		if !ok || commitGSN > meta.CommitGSN {
			meta.Ref = e.Ref
			meta.CommitGSN = commitGSN
		}
		meta.PoppedUpTo = max(meta.PoppedUpTo, e.PoppedUpTo)
		s.m[e.Tag] = meta
	}
}

// Lookup returns the metadata of the tags that have seen a commit.
func (s *MapService) Lookup(tags []sharedlog.Tag) map[sharedlog.Tag]KeyMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[sharedlog.Tag]KeyMeta, len(tags))
	for _, t := range tags {
		if meta, ok := s.m[t]; ok {
			res[t] = meta
		}
	}
	return res
}

// MaxCommitGSN returns the largest commit GSN that has been applied so far.
func (s *MapService) MaxCommitGSN() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxCommitGSN
}
