package diskqueue

import (
	"github.com/chn0318/logqueue/telemetry"
	"github.com/rs/zerolog/log"
)

// pushedData accumulates pushed bytes in fixed-capacity blocks. Each block
// is appended to until full.
type pushedData struct {
	blockCapacity int
	blocks        [][]byte
	size          int
}

func (d *pushedData) append(contents []byte) {
	for len(contents) > 0 {
		free := 0
		if n := len(d.blocks); n > 0 {
			free = cap(d.blocks[n-1]) - len(d.blocks[n-1])
		}
		if free == 0 {
			d.blocks = append(d.blocks, make([]byte, 0, d.blockCapacity))
			free = d.blockCapacity
		}

		k := min(free, len(contents))
		last := len(d.blocks) - 1
		d.blocks[last] = append(d.blocks[last], contents[:k]...)
		d.size += k
		contents = contents[k:]
	}
}

// detach hands the blocks to the caller and starts an empty sequence.
func (d *pushedData) detach() [][]byte {
	blocks := d.blocks
	d.reset()
	return blocks
}

func (d *pushedData) reset() {
	d.blocks = nil
	d.size = 0
}

// Push copies contents into the pending blocks. The returned location is a
// placeholder for the commit the data will be part of.
func (a *Adapter) Push(contents []byte) Location {
	a.checkOpen("Push")
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pushed.append(contents)
	telemetry.PushedBytesTotal.Add(float64(len(contents)))
	return Location{Lo: a.nextCommit}
}

// Pop raises the popped watermark carried by the next commit message. A
// location with a non-zero Hi is a contract violation.
func (a *Adapter) Pop(upTo Location) {
	a.checkOpen("Pop")
	if upTo.Hi != 0 {
		log.Panic().Uint64("hi", upTo.Hi).Uint64("lo", upTo.Lo).Stringer("tag", a.tag).Msg("Pop location out of range")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.poppedUpTo = max(a.poppedUpTo, upTo.Lo)
}

// SetNextVersion sets the commit sequence reported by Push. The log writer
// calls it after an append that may finish after Close, so it is a no-op on
// a closed adapter.
func (a *Adapter) SetNextVersion(next uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed.Load() {
		return
	}
	a.nextCommit = next
}
