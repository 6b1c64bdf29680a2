package queueserver

import (
	"context"

	"github.com/chn0318/logqueue/proto/queuepb"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote logqueue.Queue service.
type Client struct {
	rpc queuepb.QueueClient
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{rpc: queuepb.NewQueueClient(cc)}
}

// ReadNext returns up to n recovered bytes; an empty result means recovery
// is complete.
func (c *Client) ReadNext(ctx context.Context, n uint32) ([]byte, error) {
	out, err := c.rpc.ReadNext(ctx, wrapperspb.UInt32(n))
	if err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

// Drain reads recovered data in chunks of n bytes until recovery is
// complete, and returns how many bytes it read. The server accepts writes
// only afterwards.
func (c *Client) Drain(ctx context.Context, n uint32) (int, error) {
	var total int
	for {
		data, err := c.ReadNext(ctx, n)
		if err != nil {
			return total, err
		}
		if len(data) == 0 {
			return total, nil
		}
		total += len(data)
	}
}

func (c *Client) NextReadLocation(ctx context.Context) (uint64, error) {
	out, err := c.rpc.NextReadLocation(ctx, &emptypb.Empty{})
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) Push(ctx context.Context, data []byte) (uint64, error) {
	out, err := c.rpc.Push(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *Client) Pop(ctx context.Context, upTo uint64) error {
	_, err := c.rpc.Pop(ctx, wrapperspb.UInt64(upTo))
	return err
}

// Commit returns once the pushed data is durable in the shared log.
func (c *Client) Commit(ctx context.Context) error {
	_, err := c.rpc.Commit(ctx, &emptypb.Empty{})
	return err
}

// Status returns the largest committed log version.
func (c *Client) Status(ctx context.Context) (uint64, error) {
	out, err := c.rpc.Status(ctx, &emptypb.Empty{})
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
