package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferID_Resolve(t *testing.T) {
	// plain id resolves to itself regardless of owner
	got, ok := BufferID(7).Resolve(BufferID(3))
	assert.True(t, ok)
	assert.Equal(t, BufferID(7), got)

	got, ok = BufferID(7).Resolve(Reserved)
	assert.True(t, ok)
	assert.Equal(t, BufferID(7), got)

	// reserved id means "self" when there is an owner
	got, ok = Reserved.Resolve(BufferID(3))
	assert.True(t, ok)
	assert.Equal(t, BufferID(3), got)

	// the top level has no self to resolve to
	_, ok = Reserved.Resolve(Reserved)
	assert.False(t, ok)
}

func TestOffset_PastEnd(t *testing.T) {
	assert.True(t, PastEnd.IsPastEnd())
	assert.False(t, Offset{}.IsPastEnd())
	assert.True(t, Offset{}.IsZero())
	assert.False(t, Offset{Byte: 1}.IsZero())
}
