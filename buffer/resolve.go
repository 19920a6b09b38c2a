package buffer

import (
	"github.com/maxgerhardt/agon-vdp/types"
)

// normalize walks off forward across block boundaries until the byte
// offset lands inside a block. O(blocks touched) -- blocks are typically
// few and large, so the walk is cheap. After normalization either the
// offset addresses a stored byte, or Block == list.Len() meaning the
// position is past the end.
func normalize(list *BlockList, off *types.Offset) bool {
	for off.Block < list.Len() {
		b := list.blocks[off.Block]
		if off.Byte < b.Len() {
			return true
		}
		off.Byte -= b.Len()
		off.Block += 1
	}
	return false
}

// GetByte reads the byte at off, normalizing it in place. When advance
// is set the offset moves one byte forward after a successful read,
// which is how byte-by-byte loops iterate a position.
func GetByte(list *BlockList, off *types.Offset, advance bool) (byte, bool) {
	if !normalize(list, off) {
		return 0, false
	}
	v := list.blocks[off.Block].Byte(off.Byte)
	if advance {
		off.Byte += 1
	}
	return v, true
}

// SetByte writes the byte at off, normalizing it in place, advancing
// like GetByte on success.
func SetByte(list *BlockList, v byte, off *types.Offset, advance bool) bool {
	if !normalize(list, off) {
		return false
	}
	list.blocks[off.Block].SetByte(off.Byte, v)
	if advance {
		off.Byte += 1
	}
	return true
}
