package sharedlog

import (
	"context"
	"errors"
)

// DefaultPeekBatch is the number of messages a cursor buffers per GetMore
// when NewCursor is given a non-positive batch.
const DefaultPeekBatch = 128

var ErrCursorClosed = errors.New("cursor is closed")

// Source is what a backend provides for NewCursor to peek through.
type Source interface {
	// End returns the exclusive upper bound of valid log content.
	End() Version

	// Changed returns a channel closed on the next append. Callers must
	// fetch it before reading End to avoid missing a wakeup.
	Changed() <-chan struct{}

	// ReadRange returns at most limit records of tag with versions in
	// [from, to), in version order.
	ReadRange(tag Tag, from, to Version, limit int) ([]Record, error)
}

type peekCursor struct {
	src   Source
	tag   Tag
	batch int

	buf    []Record
	pos    int
	next   Version
	closed bool
}

// NewCursor returns a Cursor reading tag from src starting at begin.
func NewCursor(src Source, tag Tag, begin Version, batch int) Cursor {
	if batch <= 0 {
		batch = DefaultPeekBatch
	}
	return &peekCursor{
		src:   src,
		tag:   tag,
		batch: batch,
		next:  begin,
	}
}

func (c *peekCursor) HasMessage() bool { return c.pos < len(c.buf) }

func (c *peekCursor) Message() []byte { return c.buf[c.pos].Payload }

func (c *peekCursor) NextMessage() {
	if c.pos < len(c.buf) {
		c.pos++
	}
}

func (c *peekCursor) Version() Version {
	if c.HasMessage() {
		return c.buf[c.pos].Version
	}
	return c.next
}

func (c *peekCursor) GetMore(ctx context.Context) error {
	if c.closed {
		return ErrCursorClosed
	}
	for {
		changed := c.src.Changed()
		end := c.src.End()
		if c.next < end {
			recs, err := c.src.ReadRange(c.tag, c.next, end, c.batch)
			if err != nil {
				return err
			}
			c.buf, c.pos = recs, 0
			if len(recs) == c.batch {
				c.next = recs[len(recs)-1].Version + 1
			} else {
				c.next = end
			}
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *peekCursor) Close() error {
	c.closed = true
	c.buf = nil
	c.pos = 0
	return nil
}
