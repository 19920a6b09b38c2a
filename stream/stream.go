package stream

import (
	"errors"
)

// ErrTimeout is returned when a read misses its bound. Reading past the
// end of a buffer-backed source reports the same sentinel, matching the
// hardware convention of a single failure value for both.
var ErrTimeout = errors.New("stream: read timed out")

// Source is the byte feed an interpreter executes from: either the
// external transport or a cursor over a buffer's blocks.
type Source interface {
	ReadByte() (byte, error)
	// Available reports how many bytes can be read without blocking.
	// A buffer-backed source is exhausted when this reaches zero.
	Available() int
}

// Sink is where redirected output lands.
type Sink interface {
	WriteByte(b byte) error
}

// ReadWord reads a little-endian 16-bit value.
func ReadWord(s Source) (uint16, error) {
	lo, err := s.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := s.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// Read24 reads a little-endian 24-bit value.
func Read24(s Source) (uint32, error) {
	var out uint32
	for shift := 0; shift < 24; shift += 8 {
		b, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		out |= uint32(b) << shift
	}
	return out, nil
}

// ReadInto fills p from s and returns how many bytes were still
// outstanding when the source timed out. Zero means p was filled.
func ReadInto(s Source, p []byte) int {
	for i := range p {
		b, err := s.ReadByte()
		if err != nil {
			return len(p) - i
		}
		p[i] = b
	}
	return 0
}
