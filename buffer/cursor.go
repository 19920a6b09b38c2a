package buffer

import (
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
)

// Cursor is a read-only view over a buffer's blocks, used as the input
// of a called or jumped-to execution context. The block sequence is
// snapshotted at creation: writes that mutate existing blocks in place
// remain visible, but a wholesale block-list replacement is not.
type Cursor struct {
	blocks []*Block
	idx    int
	pos    int
}

var _ stream.Source = (*Cursor)(nil)

func NewCursor(list *BlockList) *Cursor {
	return &Cursor{
		blocks: list.Snapshot(),
	}
}

// ReadByte returns the next byte, or stream.ErrTimeout once the view is
// exhausted -- the same sentinel a quiet transport reports.
func (c *Cursor) ReadByte() (byte, error) {
	if !c.skipConsumed() {
		return 0, stream.ErrTimeout
	}
	b := c.blocks[c.idx].Byte(c.pos)
	c.pos += 1
	return b, nil
}

func (c *Cursor) skipConsumed() bool {
	for c.idx < len(c.blocks) {
		if c.pos < c.blocks[c.idx].Len() {
			return true
		}
		c.pos -= c.blocks[c.idx].Len()
		c.idx += 1
	}
	return false
}

func (c *Cursor) Available() int {
	if !c.skipConsumed() {
		return 0
	}
	total := c.blocks[c.idx].Len() - c.pos
	for i := c.idx + 1; i < len(c.blocks); i += 1 {
		total += c.blocks[i].Len()
	}
	return total
}

// SeekTo repositions the cursor. A past-the-end offset forces
// exhaustion, which is how "jump to end" terminates execution early.
func (c *Cursor) SeekTo(off types.Offset) {
	if off.IsPastEnd() {
		c.idx = len(c.blocks)
		c.pos = 0
		return
	}
	c.idx = off.Block
	c.pos = off.Byte
}
