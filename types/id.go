package types

import "fmt"

// BufferID is the 16-bit key a buffer is stored under.
type BufferID uint16

// Reserved is never a stored key. Depending on where it appears on the
// wire it means the current buffer, no buffer, or end-of-list.
const Reserved BufferID = 0xFFFF

func (id BufferID) IsReserved() bool {
	return id == Reserved
}

// Resolve maps the reserved id to the owning context's id, so a buffer
// can address itself without knowing its own key. Resolution fails when
// the owner is the top-level context, which has no id of its own.
func (id BufferID) Resolve(owner BufferID) (BufferID, bool) {
	if !id.IsReserved() {
		return id, true
	}
	if owner.IsReserved() {
		return Reserved, false
	}
	return owner, true
}

func (id BufferID) String() string {
	if id.IsReserved() {
		return "buffer(reserved)"
	}
	return fmt.Sprintf("buffer(%d)", uint16(id))
}
