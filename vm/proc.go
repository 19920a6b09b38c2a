package vm

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/maxgerhardt/agon-vdp/buffer"
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
	"go.uber.org/zap"
)

// Proc is one execution context: an input cursor, an output sink and an
// owner id. The top-level context owns the external transport and has
// the reserved owner id; a call spawns a nested Proc whose input is a
// view over the target buffer's blocks.
type Proc struct {
	store *buffer.Store
	in    stream.Source
	out   stream.Sink
	// the sink to restore when output redirection is reset
	origOut stream.Sink
	owner   types.BufferID
	frames  *Frames
	logger  *zap.Logger
}

type ProcOpt func(*Proc) *Proc

func LoggerOpt(l *zap.Logger) ProcOpt {
	return func(p *Proc) *Proc {
		if l != nil {
			p.logger = l
		}
		return p
	}
}

// OutputOpt sets the original output sink, usually the transport's
// write half.
func OutputOpt(s stream.Sink) ProcOpt {
	return func(p *Proc) *Proc {
		p.out = s
		p.origOut = s
		return p
	}
}

func WithFrames(f *Frames) ProcOpt {
	return func(p *Proc) *Proc {
		p.frames = f
		return p
	}
}

// NewProc creates the top-level context over the external stream.
func NewProc(store *buffer.Store, in stream.Source, opts ...ProcOpt) *Proc {
	p := &Proc{
		store:  store,
		in:     in,
		owner:  types.Reserved,
		logger: zap.L(),
	}
	for _, opt := range opts {
		p = opt(p)
	}
	if p.frames == nil {
		p.frames = NewFrames()
	}
	p.logger = p.logger.Named("vm")
	return p
}

// Run processes commands until the context is cancelled or the source
// fails with something other than a timeout. A timeout just aborts the
// current command; the next read starts a fresh one.
func (p *Proc) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("received done")
			return nil
		default:
		}

		err := p.ProcessNext()
		if errors.Is(err, stream.ErrTimeout) {
			continue
		}
		if err != nil {
			return err
		}
	}
}

// ProcessNext decodes and executes one command. An error reading the
// command header is returned; a failure inside the command body has
// already aborted it and is not propagated.
func (p *Proc) ProcessNext() error {
	w, err := stream.ReadWord(p.in)
	if err != nil {
		return err
	}
	op, err := p.in.ReadByte()
	if err != nil {
		return err
	}
	id := types.BufferID(w)

	if err := p.exec(id, Op(op)); err != nil {
		p.logger.Debug("command aborted",
			zap.Stringer("op", Op(op)),
			zap.Stringer("id", id),
			zap.Error(err))
	}
	return nil
}

// ProcessAll drains the input view. Command failures abort that
// command only; the loop ends when the view is exhausted.
func (p *Proc) ProcessAll() {
	for p.in.Available() > 0 {
		if err := p.ProcessNext(); err != nil {
			return
		}
	}
}

func (p *Proc) exec(id types.BufferID, op Op) error {
	switch op {
	case OpWrite:
		length, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		if remaining := p.store.Write(id, int(length), p.in); remaining > 0 {
			return stream.ErrTimeout
		}
		return nil

	case OpCall:
		return p.call(id, types.Offset{})

	case OpClear:
		p.store.Clear(id)
		return nil

	case OpCreate:
		size, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		if _, err := p.store.Create(id, int(size)); err != nil {
			p.logger.Debug("create failed", zap.Error(err))
		}
		return nil

	case OpSetOutput:
		p.setOutput(id)
		return nil

	case OpAdjust:
		return p.adjust(id)

	case OpCondCall:
		if p.conditional() {
			return p.call(id, types.Offset{})
		}
		return nil

	case OpJump:
		return p.jump(id, jumpOffset(id))

	case OpCondJump:
		if p.conditional() {
			return p.jump(id, jumpOffset(id))
		}
		return nil

	case OpOffsetJump:
		off, err := p.readOffset(true)
		if err != nil {
			return err
		}
		return p.jump(id, off)

	case OpOffsetCondJump:
		off, err := p.readOffset(true)
		if err != nil {
			return err
		}
		if p.conditional() {
			return p.jump(id, off)
		}
		return nil

	case OpOffsetCall:
		off, err := p.readOffset(true)
		if err != nil {
			return err
		}
		return p.call(id, off)

	case OpOffsetCondCall:
		off, err := p.readOffset(true)
		if err != nil {
			return err
		}
		if p.conditional() {
			return p.call(id, off)
		}
		return nil

	case OpCopy:
		ids := p.readBufferIDs()
		if len(ids) == 0 {
			p.logger.Debug("copy: no source ids")
			return nil
		}
		p.store.Copy(id, ids)
		return nil

	case OpConsolidate:
		p.store.Consolidate(id)
		return nil

	case OpSplit:
		length, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		p.store.SplitInto(id, int(length), []types.BufferID{id}, false)
		return nil

	case OpSplitInto:
		length, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		ids := p.readBufferIDs()
		if len(ids) == 0 {
			p.logger.Debug("splitInto: no target ids")
			return nil
		}
		p.store.SplitInto(id, int(length), ids, false)
		return nil

	case OpSplitFrom:
		length, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		start, err := stream.ReadWord(p.in)
		if err != nil || types.BufferID(start).IsReserved() {
			return err
		}
		p.store.SplitInto(id, int(length), []types.BufferID{types.BufferID(start)}, true)
		return nil

	case OpSplitBy:
		width, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		chunks, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		p.store.SplitByInto(id, int(width), int(chunks), []types.BufferID{id}, false)
		return nil

	case OpSplitByInto:
		width, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		ids := p.readBufferIDs()
		if len(ids) == 0 {
			p.logger.Debug("splitByInto: no target ids")
			return nil
		}
		p.store.SplitByInto(id, int(width), len(ids), ids, false)
		return nil

	case OpSplitByFrom:
		width, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		chunks, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		start, err := stream.ReadWord(p.in)
		if err != nil || types.BufferID(start).IsReserved() {
			return err
		}
		p.store.SplitByInto(id, int(width), int(chunks), []types.BufferID{types.BufferID(start)}, true)
		return nil

	case OpSpreadInto:
		ids := p.readBufferIDs()
		if len(ids) == 0 {
			p.logger.Debug("spreadInto: no target ids")
			return nil
		}
		p.store.SpreadInto(id, ids, false)
		return nil

	case OpSpreadFrom:
		start, err := stream.ReadWord(p.in)
		if err != nil || types.BufferID(start).IsReserved() {
			return err
		}
		p.store.SpreadInto(id, []types.BufferID{types.BufferID(start)}, true)
		return nil

	case OpReverseBlocks:
		p.store.ReverseBlocks(id)
		return nil

	case OpReverse:
		return p.reverse(id)

	case OpCopyRef:
		ids := p.readBufferIDs()
		if len(ids) == 0 {
			p.logger.Debug("copyRef: no source ids")
			return nil
		}
		p.store.CopyRef(id, ids)
		return nil

	case OpCopyAndConsolidate:
		ids := p.readBufferIDs()
		if len(ids) == 0 {
			p.logger.Debug("copyAndConsolidate: no source ids")
			return nil
		}
		p.store.CopyAndConsolidate(id, ids)
		return nil

	case OpDebugInfo:
		p.debugInfo(id)
		return nil

	default:
		// unknown opcodes are logged and ignored, no error reply
		// on this channel
		p.logger.Debug("unknown command",
			zap.Uint8("op", byte(op)),
			zap.Stringer("id", id))
		return nil
	}
}

// jumpOffset is the implied offset of an offset-less jump: jumping to
// the reserved id means "jump to end".
func jumpOffset(id types.BufferID) types.Offset {
	if id.IsReserved() {
		return types.PastEnd
	}
	return types.Offset{}
}

// call runs the target buffer as a nested context. A nested caller
// whose own input is already exhausted turns the call into a jump, so a
// trivial tail position doesn't grow recursion.
func (p *Proc) call(target types.BufferID, off types.Offset) error {
	resolved, ok := target.Resolve(p.owner)
	if !ok {
		p.logger.Debug("call: no buffer id")
		return nil
	}
	list, exists := p.store.Get(resolved)
	if !exists {
		p.logger.Debug("call: not found", zap.Stringer("id", resolved))
		return nil
	}
	if !p.owner.IsReserved() && p.in.Available() == 0 {
		return p.jump(resolved, off)
	}

	if err := p.frames.Push(Frame{Owner: resolved}); err != nil {
		p.logger.Warn("call rejected", zap.Error(err))
		return nil
	}
	defer p.frames.Pop()

	cur := buffer.NewCursor(list)
	if !off.IsZero() {
		cur.SeekTo(off)
	}
	child := &Proc{
		store: p.store,
		in:    cur,
		out:   p.out,
		// restoring output inside the call goes back to the sink the
		// call started with, not the transport
		origOut: p.out,
		owner:   resolved,
		frames:  p.frames,
		logger:  p.logger,
	}
	child.ProcessAll()
	return nil
}

// jump redirects the current context's input. The top-level context
// can't replace its externally-owned input, so a jump there degrades to
// a call; a jump to self or the reserved id seeks the current input in
// place.
func (p *Proc) jump(target types.BufferID, off types.Offset) error {
	if p.owner.IsReserved() {
		return p.call(target, off)
	}
	if target.IsReserved() || target == p.owner {
		cur, ok := p.in.(*buffer.Cursor)
		if !ok {
			p.logger.Debug("jump: input is not seekable")
			return nil
		}
		cur.SeekTo(off)
		return nil
	}
	list, exists := p.store.Get(target)
	if !exists {
		p.logger.Debug("jump: not found", zap.Stringer("id", target))
		return nil
	}
	cur := buffer.NewCursor(list)
	if !off.IsZero() {
		cur.SeekTo(off)
	}
	p.in = cur
	return nil
}

// setOutput redirects output into a writable buffer. The reserved id
// disables output entirely; id 0 restores the original sink.
func (p *Proc) setOutput(id types.BufferID) {
	if id.IsReserved() {
		p.out = nil
		return
	}
	if id == 0 {
		p.out = p.origOut
		return
	}
	list, exists := p.store.Get(id)
	if !exists || list.Len() == 0 {
		p.logger.Debug("setOutput: not found", zap.Stringer("id", id))
		return
	}
	first, err := list.Get(0)
	if err != nil {
		return
	}
	if !first.Writable() {
		p.logger.Debug("setOutput: not writable", zap.Stringer("id", id))
		return
	}
	p.out = first
}

func (p *Proc) reverse(id types.BufferID) error {
	options, err := p.in.ReadByte()
	if err != nil {
		return err
	}
	if options&reverseOptUnused != 0 {
		p.logger.Debug("reverse: unused option bits set",
			zap.Uint8("options", options))
	}

	valueSize := 1
	chunkSize := 0
	switch {
	case options&reverseOptSize == reverseOptSize:
		// explicit element width follows
		w, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		valueSize = int(w)
	case options&reverseOpt32Bit != 0:
		valueSize = 4
	case options&reverseOpt16Bit != 0:
		valueSize = 2
	}
	if options&reverseOptChunked != 0 {
		w, err := stream.ReadWord(p.in)
		if err != nil {
			return err
		}
		chunkSize = int(w)
	}
	if valueSize == 0 {
		p.logger.Debug("reverse: zero value size")
		return nil
	}

	p.store.Reverse(id, valueSize, chunkSize, options&reverseOptBlocks != 0)
	return nil
}

func (p *Proc) debugInfo(id types.BufferID) {
	list, exists := p.store.Get(id)
	if !exists || list.Len() == 0 {
		p.logger.Info("debug info: empty",
			zap.Stringer("id", id))
		return
	}
	first, err := list.Get(0)
	if err != nil {
		return
	}
	p.logger.Info("debug info",
		zap.Stringer("id", id),
		zap.Int("streams", list.Len()),
		zap.String("block0", hex.EncodeToString(first.Data())))

	// echo block 0 through the current output sink, which may have been
	// redirected into a writable buffer
	if p.out == nil {
		return
	}
	for _, b := range first.Data() {
		if err := p.out.WriteByte(b); err != nil {
			p.logger.Debug("debug info: output sink full", zap.Error(err))
			return
		}
	}
}
