package diskqueue

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/jizhuozhi/go-future"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwait_Resolved(t *testing.T) {
	v, err := Await(context.Background(), future.Done(7))
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	boom := errors.New("boom")
	_, err = Await(context.Background(), future.Done2(0, boom))
	assert.ErrorIs(t, err, boom)
}

func TestAwait_ResolvedLater(t *testing.T) {
	p := future.NewPromise[string]()
	time.AfterFunc(10*time.Millisecond, func() { p.Set("late", nil) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := Await(ctx, p.Future())
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestAwait_TimeoutLeavesNoGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()

	promises := make([]*future.Promise[int], 0, 100)
	for i := 0; i < 100; i++ {
		p := future.NewPromise[int]()
		promises = append(promises, p)
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		_, err := Await(ctx, p.Future())
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, time.Second, 10*time.Millisecond)

	// Resolving an abandoned future must not block on its callback.
	for _, p := range promises {
		p.Set(1, nil)
	}
}
