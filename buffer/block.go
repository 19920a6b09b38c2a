package buffer

import "fmt"

// Block is one contiguous byte allocation within a buffer. Blocks are
// shared by pointer when a reference-copy produces aliases; mutating
// through one alias is visible through all of them.
type Block struct {
	data []byte
	// writable blocks accept appended output when a buffer is used
	// as a redirection sink
	writable bool
	wpos     int
}

// NewBlock wraps data as a fixed block, taking ownership of the slice.
func NewBlock(data []byte) *Block {
	return &Block{data: data}
}

// NewWritableBlock allocates a zero-filled block that accepts appended
// output up to size bytes.
func NewWritableBlock(size int) *Block {
	return &Block{
		data:     make([]byte, size),
		writable: true,
	}
}

func (b *Block) Len() int {
	return len(b.data)
}

func (b *Block) Writable() bool {
	return b.writable
}

// Data exposes the backing slice. Callers treat the contents as opaque
// bytes; the interpreter mutates them in place.
func (b *Block) Data() []byte {
	return b.data
}

func (b *Block) Byte(i int) byte {
	return b.data[i]
}

func (b *Block) SetByte(i int, v byte) {
	b.data[i] = v
}

// WriteByte appends redirected output. A full block stops accepting
// bytes rather than wrapping.
func (b *Block) WriteByte(v byte) error {
	if !b.writable {
		return fmt.Errorf("block is not writable")
	}
	if b.wpos >= len(b.data) {
		return fmt.Errorf("block full at %d bytes", len(b.data))
	}
	b.data[b.wpos] = v
	b.wpos += 1
	return nil
}

// Written reports how many bytes of redirected output have landed.
func (b *Block) Written() int {
	return b.wpos
}
