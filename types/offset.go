package types

import "fmt"

// Offset addresses a byte within a buffer's logical content as
// (block index, byte offset within that block). Callers don't
// pre-normalize across block boundaries; the resolver does that.
type Offset struct {
	Block int
	Byte  int
}

// PastEnd is the explicit seek-to-end position used by an offset-less
// jump to the reserved id.
var PastEnd = Offset{Block: -1}

func (o Offset) IsZero() bool {
	return o.Block == 0 && o.Byte == 0
}

func (o Offset) IsPastEnd() bool {
	return o.Block < 0
}

func (o Offset) String() string {
	return fmt.Sprintf("%d:%d", o.Block, o.Byte)
}
