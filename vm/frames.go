package vm

import (
	"fmt"
	"sync"

	"github.com/maxgerhardt/agon-vdp/types"
)

// Frame records one active buffer execution.
type Frame struct {
	Owner types.BufferID
}

// Frames bounds call recursion. Nested execution is ordinary call-stack
// recursion, so depth is a real, finite resource; a runaway mutually
// recursive buffer program hits the ceiling and the innermost call
// fails closed instead of exhausting the goroutine stack.
type Frames struct {
	lock sync.RWMutex
	data []Frame
	ptr  int

	depth int
}

type FramesOpt func(*Frames) *Frames

func MaxDepth(max int) FramesOpt {
	return func(f *Frames) *Frames {
		f.depth = max
		return f
	}
}

func NewFrames(opts ...FramesOpt) *Frames {
	f := &Frames{
		ptr:   0,
		depth: 64,
	}
	for _, opt := range opts {
		f = opt(f)
	}
	f.data = make([]Frame, f.depth)
	return f
}

func (f *Frames) Push(fr Frame) error {
	if f.ptr == f.depth {
		return fmt.Errorf("call depth %d exceeded", f.depth)
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	f.data[f.ptr] = fr
	f.ptr += 1

	return nil
}

func (f *Frames) Pop() (Frame, error) {
	if f.Len() == 0 {
		return Frame{}, fmt.Errorf("no active frames")
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	fr := f.data[f.ptr-1]
	f.ptr -= 1

	return fr, nil
}

func (f *Frames) Len() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.ptr
}
