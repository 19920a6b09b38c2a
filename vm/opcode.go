package vm

// Op identifies a buffered-protocol sub-command. Every command on the
// wire is a 16-bit buffer id followed by one of these.
type Op byte

const (
	OpWrite          Op = 0x00
	OpCall           Op = 0x01
	OpClear          Op = 0x02
	OpCreate         Op = 0x03
	OpSetOutput      Op = 0x04
	OpAdjust         Op = 0x05
	OpCondCall       Op = 0x06
	OpJump           Op = 0x07
	OpCondJump       Op = 0x08
	OpOffsetJump     Op = 0x09
	OpOffsetCondJump Op = 0x0A
	OpOffsetCall     Op = 0x0B
	OpOffsetCondCall Op = 0x0C
	OpCopy           Op = 0x0D
	OpConsolidate    Op = 0x0E
	OpSplit          Op = 0x0F
	OpSplitInto      Op = 0x10
	OpSplitFrom      Op = 0x11
	OpSplitBy        Op = 0x12
	OpSplitByInto    Op = 0x13
	OpSplitByFrom    Op = 0x14
	OpSpreadInto     Op = 0x15
	OpSpreadFrom     Op = 0x16
	OpReverseBlocks  Op = 0x17
	OpReverse        Op = 0x18
	OpCopyRef        Op = 0x19
	OpCopyAndConsolidate Op = 0x1A

	OpDebugInfo Op = 0x20
)

func (op Op) String() string {
	var out string
	switch op {
	case OpWrite:
		out = "OpWrite"
	case OpCall:
		out = "OpCall"
	case OpClear:
		out = "OpClear"
	case OpCreate:
		out = "OpCreate"
	case OpSetOutput:
		out = "OpSetOutput"
	case OpAdjust:
		out = "OpAdjust"
	case OpCondCall:
		out = "OpCondCall"
	case OpJump:
		out = "OpJump"
	case OpCondJump:
		out = "OpCondJump"
	case OpOffsetJump:
		out = "OpOffsetJump"
	case OpOffsetCondJump:
		out = "OpOffsetCondJump"
	case OpOffsetCall:
		out = "OpOffsetCall"
	case OpOffsetCondCall:
		out = "OpOffsetCondCall"
	case OpCopy:
		out = "OpCopy"
	case OpConsolidate:
		out = "OpConsolidate"
	case OpSplit:
		out = "OpSplit"
	case OpSplitInto:
		out = "OpSplitInto"
	case OpSplitFrom:
		out = "OpSplitFrom"
	case OpSplitBy:
		out = "OpSplitBy"
	case OpSplitByInto:
		out = "OpSplitByInto"
	case OpSplitByFrom:
		out = "OpSplitByFrom"
	case OpSpreadInto:
		out = "OpSpreadInto"
	case OpSpreadFrom:
		out = "OpSpreadFrom"
	case OpReverseBlocks:
		out = "OpReverseBlocks"
	case OpReverse:
		out = "OpReverse"
	case OpCopyRef:
		out = "OpCopyRef"
	case OpCopyAndConsolidate:
		out = "OpCopyAndConsolidate"
	case OpDebugInfo:
		out = "OpDebugInfo"
	default:
		out = "unknown"
	}
	return out
}

// reverse command option bits
const (
	reverseOpt16Bit   = 0x01
	reverseOpt32Bit   = 0x02
	reverseOptSize    = 0x03
	reverseOptChunked = 0x04
	reverseOptBlocks  = 0x08
	reverseOptUnused  = 0xF0
)
