package stream

// BytesSource reads from a fixed slice. Reading past the end reports
// ErrTimeout, same as a transport that went quiet.
type BytesSource struct {
	data []byte
	pos  int
}

func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (b *BytesSource) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, ErrTimeout
	}
	out := b.data[b.pos]
	b.pos += 1
	return out, nil
}

func (b *BytesSource) Available() int {
	return len(b.data) - b.pos
}
