package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrames_PushPop(t *testing.T) {
	f := NewFrames()
	assert.Equal(t, 0, f.Len())

	assert.NoError(t, f.Push(Frame{Owner: 1}))
	assert.NoError(t, f.Push(Frame{Owner: 2}))
	assert.Equal(t, 2, f.Len())

	fr, err := f.Pop()
	assert.NoError(t, err)
	assert.Equal(t, Frame{Owner: 2}, fr)

	fr, err = f.Pop()
	assert.NoError(t, err)
	assert.Equal(t, Frame{Owner: 1}, fr)

	_, err = f.Pop()
	assert.Error(t, err)
}

func TestFrames_MaxDepth(t *testing.T) {
	f := NewFrames(MaxDepth(2))
	assert.NoError(t, f.Push(Frame{Owner: 1}))
	assert.NoError(t, f.Push(Frame{Owner: 2}))
	assert.Error(t, f.Push(Frame{Owner: 3}))
	assert.Equal(t, 2, f.Len())
}
