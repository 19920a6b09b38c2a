package buffer

import (
	"fmt"
)

// BlockList is the ordered sequence of blocks stored against one buffer
// id. Insertion order is significant: a buffer's logical content is the
// concatenation of its blocks in order, and successive writes accumulate
// as successive blocks rather than forcing a copy on each append.
type BlockList struct {
	blocks []*Block
}

func NewBlockList() *BlockList {
	return &BlockList{
		blocks: make([]*Block, 0),
	}
}

func (l *BlockList) Get(idx int) (*Block, error) {
	if idx > len(l.blocks)-1 || idx < 0 {
		return nil, fmt.Errorf("index out of range. idx %d len %d",
			idx,
			len(l.blocks))
	}

	return l.blocks[idx], nil
}

func (l *BlockList) Append(b *Block) {
	l.blocks = append(l.blocks, b)
}

func (l *BlockList) Clear() {
	l.blocks = []*Block{}
}

func (l *BlockList) Len() int {
	return len(l.blocks)
}

// Size is the buffer's logical content length, summed across blocks.
func (l *BlockList) Size() int {
	total := 0
	for _, b := range l.blocks {
		total += b.Len()
	}
	return total
}

// Replace swaps in a new block sequence wholesale. Used by the reshape
// operations, which build their result in a scratch list first.
func (l *BlockList) Replace(blocks []*Block) {
	l.blocks = blocks
}

// Reverse flips block order in place.
func (l *BlockList) Reverse() {
	for i, j := 0, len(l.blocks)-1; i < j; i, j = i+1, j-1 {
		l.blocks[i], l.blocks[j] = l.blocks[j], l.blocks[i]
	}
}

// Snapshot returns a copy of the block sequence. The blocks themselves
// are shared; a later Replace on the list is invisible to the snapshot.
func (l *BlockList) Snapshot() []*Block {
	out := make([]*Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}
