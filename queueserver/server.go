package queueserver

import (
	"context"
	"sync"

	"github.com/chn0318/logqueue/diskqueue"
	"github.com/chn0318/logqueue/mapservice"
	"github.com/chn0318/logqueue/proto/queuepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// maxReadBytes bounds a single ReadNext request.
const maxReadBytes = 4 << 20

// QueueService serves the storage-engine side of a disk queue adapter.
type QueueService struct {
	queuepb.UnimplementedQueueServer

	queue      *diskqueue.Adapter
	mapService *mapservice.MapService

	// Commits are serialized: each one waits for its acknowledgement, by
	// which time the log writer has queued the request the next one pairs with.
	commitMu sync.Mutex
}

var _ queuepb.QueueServer = (*QueueService)(nil)

func NewQueueService(queue *diskqueue.Adapter, mapService *mapservice.MapService) *QueueService {
	return &QueueService{
		queue:      queue,
		mapService: mapService,
	}
}

func (s *QueueService) ReadNext(ctx context.Context, req *wrapperspb.UInt32Value) (*wrapperspb.BytesValue, error) {
	n := req.GetValue()
	if n > maxReadBytes {
		return nil, status.Errorf(codes.InvalidArgument, "read of %d bytes exceeds limit %d", n, maxReadBytes)
	}
	data, err := s.queue.ReadNext(ctx, int(n))
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return wrapperspb.Bytes(data), nil
}

func (s *QueueService) NextReadLocation(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	return wrapperspb.UInt64(s.queue.NextReadLocation().Lo), nil
}

// checkRecovered rejects writes until recovery has drained the log: the
// writer appends to the stream the recovery cursor is reading.
func (s *QueueService) checkRecovered() error {
	if !s.queue.RecoveryDone() {
		return status.Error(codes.FailedPrecondition, "recovery in progress: drain ReadNext first")
	}
	return nil
}

func (s *QueueService) Push(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.UInt64Value, error) {
	if err := s.checkRecovered(); err != nil {
		return nil, err
	}
	loc := s.queue.Push(req.GetValue())
	return wrapperspb.UInt64(loc.Lo), nil
}

func (s *QueueService) Pop(ctx context.Context, req *wrapperspb.UInt64Value) (*emptypb.Empty, error) {
	if err := s.checkRecovered(); err != nil {
		return nil, err
	}
	s.queue.Pop(diskqueue.Location{Lo: req.GetValue()})
	return &emptypb.Empty{}, nil
}

func (s *QueueService) Commit(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.checkRecovered(); err != nil {
		return nil, err
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	// Not bounded by ctx: returning before the acknowledgement would let the
	// next commit race the writer's next request.
	if _, err := s.queue.Commit().Get(); err != nil {
		return nil, status.Errorf(codes.Unavailable, "commit failed: %v", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *QueueService) Status(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	return wrapperspb.UInt64(s.mapService.MaxCommitGSN()), nil
}
