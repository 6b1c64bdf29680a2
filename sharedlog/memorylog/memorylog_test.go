package memorylog

import (
	"context"
	"testing"
	"time"

	"github.com/chn0318/logqueue/sharedlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLog_AppendAndEnd(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()
	assert.Equal(t, sharedlog.Version(1), l.End())

	ref, err := l.Append(ctx, 1, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, sharedlog.Version(1), ref.Version())

	ref, err = l.Append(ctx, 2, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), ref.GSN)
	assert.Equal(t, sharedlog.Version(3), l.End())
	assert.Equal(t, sharedlog.Version(2), l.Tail())
}

func TestMemoryLog_CursorBatches(t *testing.T) {
	l := NewMemoryLogWithBatch(2)
	ctx := context.Background()
	for _, p := range []string{"a", "b", "c"} {
		_, err := l.Append(ctx, 1, []byte(p))
		require.NoError(t, err)
	}

	c, err := l.Peek(1, 0)
	require.NoError(t, err)
	assert.False(t, c.HasMessage())
	assert.Equal(t, sharedlog.Version(0), c.Version())

	require.NoError(t, c.GetMore(ctx))
	var got []string
	for c.HasMessage() {
		got = append(got, string(c.Message()))
		c.NextMessage()
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, sharedlog.Version(3), c.Version())

	require.NoError(t, c.GetMore(ctx))
	require.True(t, c.HasMessage())
	assert.Equal(t, sharedlog.Version(3), c.Version())
	assert.Equal(t, "c", string(c.Message()))
	c.NextMessage()
	assert.Equal(t, l.End(), c.Version())
}

func TestMemoryLog_CursorGap(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()
	_, _ = l.Append(ctx, 2, []byte("other"))
	l.Advance(4)

	c, err := l.Peek(1, 0)
	require.NoError(t, err)
	require.NoError(t, c.GetMore(ctx))
	assert.False(t, c.HasMessage())
	assert.Equal(t, l.End(), c.Version())
}

func TestMemoryLog_CursorWaitsForAppend(t *testing.T) {
	l := NewMemoryLog()
	c, err := l.Peek(1, 0)
	require.NoError(t, err)

	// The first fetch moves the cursor to the end of the empty log.
	require.NoError(t, c.GetMore(context.Background()))
	assert.False(t, c.HasMessage())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.GetMore(ctx), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- c.GetMore(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	_, err = l.Append(context.Background(), 1, []byte("late"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
		require.True(t, c.HasMessage())
		assert.Equal(t, "late", string(c.Message()))
	case <-time.After(2 * time.Second):
		t.Fatal("cursor did not wake up on append")
	}
}

func TestMemoryLog_Pop(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()
	for _, p := range []string{"a", "b", "c"} {
		_, err := l.Append(ctx, 1, []byte(p))
		require.NoError(t, err)
	}
	require.NoError(t, l.Pop(ctx, 1, 3))

	recs, err := l.ReadRange(1, 0, l.End(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c", string(recs[0].Payload))
}
