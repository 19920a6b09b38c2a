package vm

import (
	"github.com/maxgerhardt/agon-vdp/buffer"
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
	"go.uber.org/zap"
)

// conditional operations. Operations above CondNotExists take an
// operand; comparisons are unsigned byte comparisons.
const (
	CondExists = iota
	CondNotExists
	CondEqual
	CondNotEqual
	CondLess
	CondGreater
	CondLessEqual
	CondGreaterEqual
	CondAnd
	CondOr
)

// conditional opcode flag bits
const (
	condOpMask          = 0x0F
	condAdvancedOffsets = 0x10
	condBufferValue     = 0x20
)

// conditional evaluates the single-byte predicate that gates the
// conditional call/jump variants. Any resolution failure -- buffer not
// found, offset not found, read timeout -- evaluates false, so the
// caller simply does not branch.
func (p *Proc) conditional() bool {
	cmd, err := p.in.ReadByte()
	if err != nil {
		return false
	}
	w, err := stream.ReadWord(p.in)
	if err != nil {
		return false
	}
	advanced := cmd&condAdvancedOffsets != 0
	useBufferValue := cmd&condBufferValue != 0
	op := int(cmd & condOpMask)
	hasOperand := op > CondNotExists

	off, err := p.readOffset(advanced)
	if err != nil {
		return false
	}

	var operandList *buffer.BlockList
	var operandOff types.Offset
	if useBufferValue && hasOperand {
		ow, err := stream.ReadWord(p.in)
		if err != nil {
			return false
		}
		operandOff, err = p.readOffset(advanced)
		if err != nil {
			return false
		}
		operandID, ok := types.BufferID(ow).Resolve(p.owner)
		if !ok {
			p.logger.Debug("conditional: no operand buffer id")
			return false
		}
		var exists bool
		operandList, exists = p.store.Get(operandID)
		if !exists {
			p.logger.Debug("conditional: operand buffer not found",
				zap.Stringer("id", operandID))
			return false
		}
	}

	checkID, ok := types.BufferID(w).Resolve(p.owner)
	if !ok {
		p.logger.Debug("conditional: no check buffer id")
		return false
	}
	list, exists := p.store.Get(checkID)
	if !exists {
		p.logger.Debug("conditional: buffer not found",
			zap.Stringer("id", checkID))
		return false
	}

	v, found := buffer.GetByte(list, &off, false)
	if !found {
		p.logger.Debug("conditional: source offset not found",
			zap.Stringer("offset", off))
		return false
	}
	src := int(v)

	operand := 0
	if hasOperand {
		if operandList != nil {
			ov, found := buffer.GetByte(operandList, &operandOff, false)
			if !found {
				p.logger.Debug("conditional: operand offset not found",
					zap.Stringer("offset", operandOff))
				return false
			}
			operand = int(ov)
		} else {
			ob, err := p.in.ReadByte()
			if err != nil {
				return false
			}
			operand = int(ob)
		}
	}

	result := false
	switch op {
	case CondExists:
		result = src != 0
	case CondNotExists:
		result = src == 0
	case CondEqual:
		result = src == operand
	case CondNotEqual:
		result = src != operand
	case CondLess:
		result = src < operand
	case CondGreater:
		result = src > operand
	case CondLessEqual:
		result = src <= operand
	case CondGreaterEqual:
		result = src >= operand
	case CondAnd:
		result = src != 0 && operand != 0
	case CondOr:
		result = src != 0 || operand != 0
	}

	p.logger.Debug("conditional evaluated",
		zap.Stringer("id", checkID),
		zap.Int("op", op),
		zap.Int("source", src),
		zap.Int("operand", operand),
		zap.Bool("result", result))
	return result
}
