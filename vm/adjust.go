package vm

import (
	"github.com/maxgerhardt/agon-vdp/buffer"
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
	"go.uber.org/zap"
)

// adjust base operations. Operations above AdjustNeg take an operand.
const (
	AdjustNot = iota
	AdjustNeg
	AdjustSet
	AdjustAdd
	AdjustAddCarry
	AdjustAnd
	AdjustOr
	AdjustXor
)

// adjust opcode flag bits
const (
	adjustOpMask          = 0x0F
	adjustAdvancedOffsets = 0x10
	adjustBufferValue     = 0x20
	adjustMultiTarget     = 0x40
	adjustMultiOperand    = 0x80
)

// adjust is the generalized bytewise read-modify-write over buffer
// contents. One opcode byte encodes the base operation plus four flags:
// advanced offsets, buffer-sourced operand, multi-target (iterate the
// source position across count bytes), multi-operand (iterate the
// operand across count bytes).
//
// Multi-target writes land in-loop, so a failure partway leaves prior
// iterations' writes in place. That is the accepted tradeoff: adjust is
// not transactional.
func (p *Proc) adjust(target types.BufferID) error {
	cmd, err := p.in.ReadByte()
	if err != nil {
		return err
	}
	advanced := cmd&adjustAdvancedOffsets != 0
	useBufferValue := cmd&adjustBufferValue != 0
	multiTarget := cmd&adjustMultiTarget != 0
	multiOperand := cmd&adjustMultiOperand != 0
	op := int(cmd & adjustOpMask)
	hasOperand := op > AdjustNeg

	off, err := p.readOffset(advanced)
	if err != nil {
		return err
	}

	count := 1
	if multiTarget || multiOperand {
		if advanced {
			v, err := stream.Read24(p.in)
			if err != nil {
				return err
			}
			count = int(v)
		} else {
			w, err := stream.ReadWord(p.in)
			if err != nil {
				return err
			}
			count = int(w)
		}
	}

	var operandList *buffer.BlockList
	var operandOff types.Offset
	if useBufferValue && hasOperand {
		w, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		operandOff, err = p.readOffset(advanced)
		if err != nil {
			return err
		}
		operandID, ok := types.BufferID(w).Resolve(p.owner)
		if !ok {
			p.logger.Debug("adjust: no operand buffer id")
			return nil
		}
		var exists bool
		operandList, exists = p.store.Get(operandID)
		if !exists {
			p.logger.Debug("adjust: operand buffer not found",
				zap.Stringer("id", operandID))
			return nil
		}
	}

	resolved, ok := target.Resolve(p.owner)
	if !ok {
		p.logger.Debug("adjust: no target buffer id")
		return nil
	}
	list, exists := p.store.Get(resolved)
	if !exists {
		p.logger.Debug("adjust: buffer not found", zap.Stringer("id", resolved))
		return nil
	}

	readOperand := func(advance bool) (int, bool) {
		if operandList != nil {
			v, ok := buffer.GetByte(operandList, &operandOff, advance)
			return int(v), ok
		}
		b, err := p.in.ReadByte()
		if err != nil {
			return 0, false
		}
		return int(b), true
	}

	src := 0
	operand := 0
	carry := 0
	usingCarry := false

	if !multiTarget {
		// singular source value, stored once after the loop
		v, ok := buffer.GetByte(list, &off, false)
		if !ok {
			p.logger.Debug("adjust: source offset not found",
				zap.Stringer("offset", off))
			return nil
		}
		src = int(v)
	}
	if hasOperand && !multiOperand {
		v, ok := readOperand(false)
		if !ok {
			p.logger.Debug("adjust: invalid operand")
			return nil
		}
		operand = v
	}

	for i := 0; i < count; i += 1 {
		if multiTarget {
			v, ok := buffer.GetByte(list, &off, false)
			if !ok {
				p.logger.Debug("adjust: source offset not found",
					zap.Stringer("offset", off))
				return nil
			}
			src = int(v)
		}
		if hasOperand && multiOperand {
			v, ok := readOperand(true)
			if !ok {
				p.logger.Debug("adjust: invalid operand")
				return nil
			}
			operand = v
		}

		switch op {
		case AdjustNot:
			src = int(^byte(src))
		case AdjustNeg:
			src = int(-byte(src))
		case AdjustSet:
			src = operand
		case AdjustAdd:
			// bytewise add, no carry, so bytes may overflow
			src = int(byte(src + operand))
		case AdjustAddCarry:
			// bytes treated as little-endian order
			usingCarry = true
			src = src + operand + carry
			if src > 255 {
				carry = 1
				src -= 256
			} else {
				carry = 0
			}
		case AdjustAnd:
			src = src & operand
		case AdjustOr:
			src = src | operand
		case AdjustXor:
			src = src ^ operand
		}

		if multiTarget {
			if !buffer.SetByte(list, byte(src), &off, true) {
				p.logger.Debug("adjust: failed to store result",
					zap.Stringer("offset", off))
				return nil
			}
		}
	}

	if !multiTarget {
		// advance so a trailing carry byte lands at the next position
		if !buffer.SetByte(list, byte(src), &off, true) {
			p.logger.Debug("adjust: failed to store result",
				zap.Stringer("offset", off))
			return nil
		}
	}
	if usingCarry {
		if !buffer.SetByte(list, byte(carry), &off, false) {
			p.logger.Debug("adjust: failed to store carry",
				zap.Stringer("offset", off))
			return nil
		}
	}

	p.logger.Debug("adjusted buffer",
		zap.Stringer("id", resolved),
		zap.Int("op", op),
		zap.Int("count", count),
		zap.Int("result", src))
	return nil
}
