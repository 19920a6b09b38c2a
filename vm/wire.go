package vm

import (
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
)

const (
	// top bit of a 24-bit offset signals a trailing block-index word
	advancedBlockFlag = 0x800000
	advancedByteMask  = 0x7FFFFF
)

// readOffset decodes a wire position. The simple encoding is a 16-bit
// byte offset with block index 0; the advanced encoding is 24 bits
// where a set top bit means a 16-bit block index follows and the
// remaining 23 bits are the within-block offset.
func (p *Proc) readOffset(advanced bool) (types.Offset, error) {
	if !advanced {
		w, err := stream.ReadWord(p.in)
		if err != nil {
			return types.Offset{}, err
		}
		return types.Offset{Byte: int(w)}, nil
	}
	v, err := stream.Read24(p.in)
	if err != nil {
		return types.Offset{}, err
	}
	if v&advancedBlockFlag != 0 {
		idx, err := stream.ReadWord(p.in)
		if err != nil {
			return types.Offset{}, err
		}
		return types.Offset{Block: int(idx), Byte: int(v & advancedByteMask)}, nil
	}
	return types.Offset{Byte: int(v)}, nil
}

// readBufferIDs consumes 16-bit ids until the reserved terminator. A
// timeout discards the partial list; consumers treat an empty result as
// "abort, nothing to do".
func (p *Proc) readBufferIDs() []types.BufferID {
	var out []types.BufferID
	for {
		w, err := stream.ReadWord(p.in)
		if err != nil {
			return nil
		}
		id := types.BufferID(w)
		if id.IsReserved() {
			return out
		}
		out = append(out, id)
	}
}
