package logwriter

import (
	"context"
	"fmt"

	"github.com/chn0318/logqueue/diskqueue"
	"github.com/chn0318/logqueue/mapservice"
	"github.com/chn0318/logqueue/sharedlog"
	"github.com/chn0318/logqueue/telemetry"
	"github.com/jizhuozhi/go-future"
	"github.com/rs/zerolog/log"
)

// CommitSource is the commit side of a disk queue adapter.
type CommitSource interface {
	RequestCommitMessage() (*future.Future[*diskqueue.CommitMessage], error)
	SetNextVersion(next uint64)
}

// Writer consumes commit messages and appends them to a shared log.
type Writer struct {
	src   CommitSource
	log   sharedlog.SharedLog
	tag   sharedlog.Tag
	index *mapservice.MapService

	popped uint64
	done   chan struct{}
	err    error
}

func New(src CommitSource, sl sharedlog.SharedLog, tag sharedlog.Tag, index *mapservice.MapService) *Writer {
	return &Writer{
		src:   src,
		log:   sl,
		tag:   tag,
		index: index,
		done:  make(chan struct{}),
	}
}

// Start queues the first commit request before returning, so the storage
// engine may commit as soon as Start returns, and then serves commits until
// ctx is cancelled or the adapter is closed. A commit delivered after the
// writer stopped is failed with the reason it stopped.
func (w *Writer) Start(ctx context.Context) {
	pending, err := w.src.RequestCommitMessage()
	go func() {
		defer close(w.done)
		if err == nil {
			err = w.loop(ctx, pending)
		}
		w.err = err
		log.Info().Err(err).Stringer("tag", w.tag).Msg("Log writer stopped")
	}()
}

// Wait blocks until the writer stops and returns why it stopped.
func (w *Writer) Wait() error {
	<-w.done
	return w.err
}

func (w *Writer) loop(ctx context.Context, pending *future.Future[*diskqueue.CommitMessage]) error {
	for {
		msg, err := diskqueue.Await(ctx, pending)
		if err != nil {
			// The request stays queued in the adapter; nobody will write
			// what a later Commit pairs with it.
			pending.Subscribe(func(late *diskqueue.CommitMessage, lerr error) {
				if lerr == nil {
					late.Fail(err)
				}
			})
			return err
		}
		// Request the next commit before acknowledging this one, so the
		// committer never observes an empty request queue.
		pending, err = w.src.RequestCommitMessage()
		if err != nil {
			msg.Fail(err)
			return err
		}

		if err := w.apply(ctx, msg); err != nil {
			log.Error().Err(err).Stringer("tag", w.tag).Int("bytes", msg.Size()).Msg("Failed to write commit")
			msg.Fail(err)
			continue
		}
		msg.Acknowledge()
	}
}

func (w *Writer) apply(ctx context.Context, msg *diskqueue.CommitMessage) error {
	entry := mapservice.CommitEntry{Tag: w.tag, PoppedUpTo: msg.PoppedUpTo}
	var commitGSN uint64

	if msg.Size() > 0 {
		ref, err := w.log.Append(ctx, w.tag, msg.Bytes())
		if err != nil {
			telemetry.LogAppendsTotal.With("failed").Inc()
			return fmt.Errorf("append commit: %w", err)
		}
		telemetry.LogAppendsTotal.With("success").Inc()
		entry.Ref = ref
		commitGSN = ref.GSN
		w.src.SetNextVersion(ref.GSN + 1)
	}

	if msg.PoppedUpTo > w.popped {
		if err := w.log.Pop(ctx, w.tag, sharedlog.Version(msg.PoppedUpTo)); err != nil {
			return fmt.Errorf("pop below %d: %w", msg.PoppedUpTo, err)
		}
		w.popped = msg.PoppedUpTo
	}

	if w.index != nil {
		w.index.ApplyCommit(commitGSN, []mapservice.CommitEntry{entry})
	}

	log.Debug().
		Stringer("tag", w.tag).
		Int("bytes", msg.Size()).
		Uint64("gsn", commitGSN).
		Uint64("popped_up_to", msg.PoppedUpTo).
		Msg("Wrote commit")
	return nil
}
