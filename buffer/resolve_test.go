package buffer

import (
	"testing"

	"github.com/maxgerhardt/agon-vdp/types"
	"github.com/stretchr/testify/assert"
)

func twoBlockList() *BlockList {
	l := NewBlockList()
	l.Append(NewBlock([]byte{0xAA, 0xBB}))
	l.Append(NewBlock([]byte{0xCC, 0xDD, 0xEE}))
	return l
}

func TestGetByte_Normalizes(t *testing.T) {
	l := twoBlockList()

	// offset 3 from block 0 walks into block 1
	off := types.Offset{Block: 0, Byte: 3}
	v, ok := GetByte(l, &off, false)
	assert.True(t, ok)
	assert.Equal(t, byte(0xDD), v)
	assert.Equal(t, types.Offset{Block: 1, Byte: 1}, off)
}

func TestGetByte_Advance(t *testing.T) {
	l := twoBlockList()

	off := types.Offset{}
	want := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
	for _, b := range want {
		v, ok := GetByte(l, &off, true)
		assert.True(t, ok)
		assert.Equal(t, b, v)
	}

	// walked off the end
	_, ok := GetByte(l, &off, true)
	assert.False(t, ok)
}

func TestGetByte_PastEnd(t *testing.T) {
	l := twoBlockList()

	off := types.Offset{Byte: 5}
	_, ok := GetByte(l, &off, false)
	assert.False(t, ok)
}

func TestSetByte(t *testing.T) {
	l := twoBlockList()

	off := types.Offset{Byte: 2}
	ok := SetByte(l, 0x11, &off, false)
	assert.True(t, ok)

	second, err := l.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x11), second.Byte(0))

	// failure doesn't write anywhere
	off = types.Offset{Byte: 99}
	ok = SetByte(l, 0x22, &off, false)
	assert.False(t, ok)
}
