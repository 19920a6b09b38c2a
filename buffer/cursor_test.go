package buffer

import (
	"testing"

	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
	"github.com/stretchr/testify/assert"
)

func TestCursor_ReadAcrossBlocks(t *testing.T) {
	cur := NewCursor(twoBlockList())
	assert.Equal(t, 5, cur.Available())

	var got []byte
	for {
		b, err := cur.ReadByte()
		if err != nil {
			assert.ErrorIs(t, err, stream.ErrTimeout)
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}, got)
	assert.Equal(t, 0, cur.Available())
}

func TestCursor_SeekTo(t *testing.T) {
	cur := NewCursor(twoBlockList())

	cur.SeekTo(types.Offset{Block: 1, Byte: 1})
	b, err := cur.ReadByte()
	assert.NoError(t, err)
	assert.Equal(t, byte(0xDD), b)

	// an unnormalized offset works too
	cur.SeekTo(types.Offset{Byte: 4})
	b, err = cur.ReadByte()
	assert.NoError(t, err)
	assert.Equal(t, byte(0xEE), b)
}

func TestCursor_SeekPastEnd(t *testing.T) {
	cur := NewCursor(twoBlockList())
	cur.SeekTo(types.PastEnd)
	assert.Equal(t, 0, cur.Available())
	_, err := cur.ReadByte()
	assert.ErrorIs(t, err, stream.ErrTimeout)
}

func TestCursor_SnapshotSemantics(t *testing.T) {
	list := twoBlockList()
	cur := NewCursor(list)

	// replacing the block list is invisible to the cursor
	list.Replace([]*Block{NewBlock([]byte{0x00})})
	assert.Equal(t, 5, cur.Available())

	// but in-place mutation of a shared block is visible
	list2 := twoBlockList()
	cur2 := NewCursor(list2)
	first, err := list2.Get(0)
	assert.NoError(t, err)
	first.SetByte(0, 0x42)
	b, err := cur2.ReadByte()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), b)
}
