package mapservice

import (
	"testing"

	"github.com/chn0318/logqueue/sharedlog"
	"github.com/stretchr/testify/assert"
)

func TestApplyCommit_NewerWins(t *testing.T) {
	s := NewMapService()

	s.ApplyCommit(5, []CommitEntry{{Tag: 1, Ref: sharedlog.ShardlessRef(5), PoppedUpTo: 2}})
	s.ApplyCommit(3, []CommitEntry{{Tag: 1, Ref: sharedlog.ShardlessRef(3), PoppedUpTo: 4}})

	got := s.Lookup([]sharedlog.Tag{1, 2})
	assert.Len(t, got, 1)
	assert.Equal(t, KeyMeta{Ref: sharedlog.ShardlessRef(5), CommitGSN: 5, PoppedUpTo: 4}, got[1])
	assert.Equal(t, uint64(5), s.MaxCommitGSN())
}

func TestApplyCommit_MultipleTags(t *testing.T) {
	s := NewMapService()

	s.ApplyCommit(7, []CommitEntry{
		{Tag: 1, Ref: sharedlog.ShardedRef(2, 70)},
		{Tag: 2, Ref: sharedlog.ShardedRef(3, 71)},
	})

	got := s.Lookup([]sharedlog.Tag{1, 2})
	assert.Equal(t, uint32(2), got[1].Ref.ShardID)
	assert.Equal(t, uint64(71), got[2].Ref.GSN)
	assert.Equal(t, uint64(7), s.MaxCommitGSN())
}
