package queueserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/chn0318/logqueue/diskqueue"
	"github.com/chn0318/logqueue/logwriter"
	"github.com/chn0318/logqueue/mapservice"
	"github.com/chn0318/logqueue/proto/queuepb"
	"github.com/chn0318/logqueue/sharedlog"
	"github.com/chn0318/logqueue/sharedlog/memorylog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const tag sharedlog.Tag = 9

func startServer(t *testing.T, ml *memorylog.MemoryLog) *Client {
	t.Helper()

	q, err := diskqueue.Open(ml, tag, diskqueue.WithBlockCapacity(4))
	require.NoError(t, err)
	ms := mapservice.NewMapService()
	w := logwriter.New(q, ml, tag, ms)
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	queuepb.RegisterQueueServer(srv, NewQueueService(q, ms))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.GracefulStop()
		cancel()
		_ = w.Wait()
		q.Close()
	})
	return NewClient(conn)
}

func TestQueueService_RecoverThenCommit(t *testing.T) {
	ml := memorylog.NewMemoryLog()
	for _, p := range []string{"X", "YZ"} {
		_, err := ml.Append(context.Background(), tag, []byte(p))
		require.NoError(t, err)
	}
	c := startServer(t, ml)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := c.ReadNext(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "X", string(got))
	got, err = c.ReadNext(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "YZ", string(got))
	got, err = c.ReadNext(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	loc, err := c.NextReadLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), loc)

	_, err = c.Push(ctx, []byte("AAAA"))
	require.NoError(t, err)
	_, err = c.Push(ctx, []byte("BB"))
	require.NoError(t, err)
	require.NoError(t, c.Commit(ctx))

	committed, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), committed)

	next, err := c.Push(ctx, []byte("C"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next)
	require.NoError(t, c.Pop(ctx, 3))
	require.NoError(t, c.Commit(ctx))

	recs, err := ml.ReadRange(tag, 0, ml.End(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "AAAABB", string(recs[0].Payload))
	assert.Equal(t, "C", string(recs[1].Payload))
}

func TestQueueService_RejectsWritesDuringRecovery(t *testing.T) {
	ml := memorylog.NewMemoryLog()
	_, err := ml.Append(context.Background(), tag, []byte("old"))
	require.NoError(t, err)
	c := startServer(t, ml)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = c.Push(ctx, []byte("new"))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, codes.FailedPrecondition, status.Code(c.Pop(ctx, 1)))
	assert.Equal(t, codes.FailedPrecondition, status.Code(c.Commit(ctx)))

	n, err := c.Drain(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = c.Push(ctx, []byte("new"))
	require.NoError(t, err)
	require.NoError(t, c.Commit(ctx))

	recs, err := ml.ReadRange(tag, 0, ml.End(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "new", string(recs[1].Payload))
}

func TestQueueService_ConcurrentCommits(t *testing.T) {
	ml := memorylog.NewMemoryLog()
	c := startServer(t, ml)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.Drain(ctx, 1024)
	require.NoError(t, err)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			if _, err := c.Push(ctx, []byte("v")); err != nil {
				errs <- err
				return
			}
			errs <- c.Commit(ctx)
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-errs)
	}

	var total int
	recs, err := ml.ReadRange(tag, 0, ml.End(), 100)
	require.NoError(t, err)
	for _, r := range recs {
		total += len(r.Payload)
	}
	assert.Equal(t, 8, total)
}

func TestQueueService_ReadLimit(t *testing.T) {
	c := startServer(t, memorylog.NewMemoryLog())

	_, err := c.ReadNext(context.Background(), maxReadBytes+1)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
