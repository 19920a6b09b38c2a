package buffer

import (
	"github.com/maxgerhardt/agon-vdp/types"
	"go.uber.org/zap"
)

// Bulk reshaping of buffer contents: copy, consolidate, split, spread,
// reverse. These mutate store structure, so they hold the store lock
// for the whole operation.

// consolidated flattens a list into one block. The sole block is shared
// as-is when there is nothing to merge.
func consolidated(list *BlockList) *Block {
	if list.Len() == 1 {
		return list.blocks[0]
	}
	data := make([]byte, 0, list.Size())
	for _, b := range list.blocks {
		data = append(data, b.Data()...)
	}
	return NewBlock(data)
}

// splitBlock partitions a block into chunks of length bytes; the last
// chunk may be shorter. Chunks are fresh copies.
func splitBlock(b *Block, length int) []*Block {
	var out []*Block
	data := b.Data()
	for start := 0; start < len(data); start += length {
		end := start + length
		if end > len(data) {
			end = len(data)
		}
		chunk := make([]byte, end-start)
		copy(chunk, data[start:end])
		out = append(out, NewBlock(chunk))
	}
	return out
}

// reverseValues reverses the order of valueSize-wide elements in data.
// Bytes within an element keep their order.
func reverseValues(data []byte, valueSize int) {
	n := len(data) / valueSize
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		a := data[i*valueSize : (i+1)*valueSize]
		b := data[j*valueSize : (j+1)*valueSize]
		for k := 0; k < valueSize; k += 1 {
			a[k], b[k] = b[k], a[k]
		}
	}
}

// nextTarget advances the chunk-distribution position. With fromTarget
// the single listed id itself increments, each new target getting
// cleared just before it receives; otherwise the explicit list is
// cycled by index.
func nextTarget(targets []types.BufferID, idx int, fromTarget bool) int {
	if fromTarget {
		targets[idx] += 1
		return idx
	}
	return (idx + 1) % len(targets)
}

// Copy deep-copies every block from the listed sources, in listed then
// block order, replacing the target's block list at the end. The target
// may appear in its own source list since the result is built in a
// scratch list first.
func (s *Store) Copy(target types.BufferID, sources []types.BufferID) {
	if target.IsReserved() {
		s.logger.Debug("copy: ignoring reserved target")
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	scratch := make([]*Block, 0)
	for _, srcID := range sources {
		list, exists := s.buffers[srcID]
		if !exists {
			s.logger.Debug("copy: source not found", zap.Stringer("id", srcID))
			continue
		}
		for _, b := range list.blocks {
			data := make([]byte, b.Len())
			copy(data, b.Data())
			scratch = append(scratch, NewBlock(data))
		}
	}
	s.ensure(target).Replace(scratch)
	s.logger.Debug("copied blocks",
		zap.Stringer("target", target),
		zap.Int("blocks", len(scratch)))
}

// CopyRef aliases blocks instead of copying bytes. A source equal to
// the target is skipped to prevent a self-referential alias cycle.
func (s *Store) CopyRef(target types.BufferID, sources []types.BufferID) {
	if target.IsReserved() {
		s.logger.Debug("copyRef: ignoring reserved target")
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	list := s.ensure(target)
	list.Clear()
	for _, srcID := range sources {
		if srcID == target {
			s.logger.Debug("copyRef: skipping target as source")
			continue
		}
		src, exists := s.buffers[srcID]
		if !exists {
			s.logger.Debug("copyRef: source not found", zap.Stringer("id", srcID))
			continue
		}
		for _, b := range src.blocks {
			list.Append(b)
		}
	}
	s.logger.Debug("copied block references",
		zap.Stringer("target", target),
		zap.Int("blocks", list.Len()))
}

// CopyAndConsolidate copies all source bytes into one contiguous block,
// reusing the target's existing single block when the length already
// matches. The target is skipped as a source.
func (s *Store) CopyAndConsolidate(target types.BufferID, sources []types.BufferID) {
	if target.IsReserved() {
		s.logger.Debug("copyAndConsolidate: ignoring reserved target")
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	length := 0
	for _, srcID := range sources {
		if srcID == target {
			continue
		}
		if src, exists := s.buffers[srcID]; exists {
			length += src.Size()
		}
	}

	list := s.ensure(target)
	reuse := list.Len() == 1 && list.blocks[0].Len() == length
	if !reuse {
		list.Replace([]*Block{NewBlock(make([]byte, length))})
	}
	dest := list.blocks[0].Data()[:0]

	for _, srcID := range sources {
		if srcID == target {
			continue
		}
		src, exists := s.buffers[srcID]
		if !exists {
			s.logger.Debug("copyAndConsolidate: source not found",
				zap.Stringer("id", srcID))
			continue
		}
		for _, b := range src.blocks {
			dest = append(dest, b.Data()...)
		}
	}
	s.logger.Debug("copied and consolidated",
		zap.Stringer("target", target),
		zap.Int("bytes", length))
}

// Consolidate merges a buffer's blocks into one contiguous block. A
// single-block buffer is left untouched.
func (s *Store) Consolidate(id types.BufferID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	list, exists := s.buffers[id]
	if !exists {
		s.logger.Debug("consolidate: not found", zap.Stringer("id", id))
		return
	}
	if list.Len() <= 1 {
		return
	}
	merged := consolidated(list)
	list.Replace([]*Block{merged})
	s.logger.Debug("consolidated buffer", zap.Stringer("id", id))
}

// SplitInto consolidates the source, partitions it into length-byte
// chunks (last may be shorter) and distributes one chunk per target.
// With an explicit list the targets are pre-cleared and cycled; with
// fromTarget the targets are the contiguous id range from the single
// listed start, each cleared just before it receives.
func (s *Store) SplitInto(id types.BufferID, length int, targets []types.BufferID, fromTarget bool) {
	if length <= 0 || len(targets) == 0 {
		s.logger.Debug("splitInto: nothing to do",
			zap.Stringer("id", id),
			zap.Int("length", length))
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	list, exists := s.buffers[id]
	if !exists {
		s.logger.Debug("splitInto: not found", zap.Stringer("id", id))
		return
	}
	src := consolidated(list)
	if !fromTarget {
		for _, t := range targets {
			s.clearContent(t)
		}
	}

	chunks := splitBlock(src, length)
	targets = append([]types.BufferID(nil), targets...)
	ti := 0
	for _, chunk := range chunks {
		target := targets[ti]
		if fromTarget {
			s.clearContent(target)
		}
		s.ensure(target).Append(chunk)
		ti = nextTarget(targets, ti, fromTarget)
	}
	s.logger.Debug("split buffer",
		zap.Stringer("id", id),
		zap.Int("chunks", len(chunks)),
		zap.Int("length", length))
}

// SplitByInto splits by width, round-robins the pieces across exactly
// chunkCount groups (piece i to group i mod chunkCount), consolidates
// each group and distributes with the same clear/cycle policy as
// SplitInto.
func (s *Store) SplitByInto(id types.BufferID, width, chunkCount int, targets []types.BufferID, fromTarget bool) {
	if width <= 0 || chunkCount <= 0 || len(targets) == 0 {
		s.logger.Debug("splitByInto: nothing to do",
			zap.Stringer("id", id),
			zap.Int("width", width),
			zap.Int("chunkCount", chunkCount))
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	list, exists := s.buffers[id]
	if !exists {
		s.logger.Debug("splitByInto: not found", zap.Stringer("id", id))
		return
	}
	src := consolidated(list)
	if !fromTarget {
		for _, t := range targets {
			s.clearContent(t)
		}
	}

	groups := make([][]*Block, chunkCount)
	for i, piece := range splitBlock(src, width) {
		gi := i % chunkCount
		groups[gi] = append(groups[gi], piece)
	}

	targets = append([]types.BufferID(nil), targets...)
	ti := 0
	for _, group := range groups {
		target := targets[ti]
		if fromTarget {
			s.clearContent(target)
		}
		gl := &BlockList{blocks: group}
		s.ensure(target).Append(consolidated(gl))
		ti = nextTarget(targets, ti, fromTarget)
	}
	s.logger.Debug("split buffer by width",
		zap.Stringer("id", id),
		zap.Int("width", width),
		zap.Int("chunkCount", chunkCount))
}

// SpreadInto distributes a buffer's existing blocks one per target,
// aliasing rather than copying, with the SplitInto clear/cycle policy.
func (s *Store) SpreadInto(id types.BufferID, targets []types.BufferID, fromTarget bool) {
	if len(targets) == 0 {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	list, exists := s.buffers[id]
	if !exists {
		s.logger.Debug("spreadInto: not found", zap.Stringer("id", id))
		return
	}
	if !fromTarget {
		for _, t := range targets {
			s.clearContent(t)
		}
	}
	// snapshot after clearing: a source listed among the targets has
	// nothing left to spread
	blocks := list.Snapshot()
	targets = append([]types.BufferID(nil), targets...)
	ti := 0
	for _, b := range blocks {
		target := targets[ti]
		if fromTarget {
			s.clearContent(target)
		}
		s.ensure(target).Append(b)
		ti = nextTarget(targets, ti, fromTarget)
	}
	s.logger.Debug("spread buffer",
		zap.Stringer("id", id),
		zap.Int("blocks", len(blocks)))
}

// ReverseBlocks reverses block order only.
func (s *Store) ReverseBlocks(id types.BufferID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	list, exists := s.buffers[id]
	if !exists {
		return
	}
	list.Reverse()
	s.logger.Debug("reversed blocks", zap.Stringer("id", id))
}

// Reverse reverses byte content within each block, treating a block as
// an array of valueSize-wide elements. With chunkSize set, reversal is
// independent within each chunkSize-byte run (per bitmap row, say).
// Every block length must be an exact multiple of valueSize and of
// chunkSize, or the whole command aborts with no mutation.
func (s *Store) Reverse(id types.BufferID, valueSize, chunkSize int, reverseBlocks bool) {
	if valueSize <= 0 {
		s.logger.Debug("reverse: bad value size", zap.Int("valueSize", valueSize))
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	list, exists := s.buffers[id]
	if !exists {
		s.logger.Debug("reverse: not found", zap.Stringer("id", id))
		return
	}
	for _, b := range list.blocks {
		if b.Len()%valueSize != 0 || (chunkSize != 0 && b.Len()%chunkSize != 0) {
			s.logger.Debug("reverse: block not a multiple of value/chunk size",
				zap.Stringer("id", id),
				zap.Int("block", b.Len()),
				zap.Int("valueSize", valueSize),
				zap.Int("chunkSize", chunkSize))
			return
		}
	}

	for _, b := range list.blocks {
		data := b.Data()
		if chunkSize == 0 {
			reverseValues(data, valueSize)
			continue
		}
		for start := 0; start < len(data); start += chunkSize {
			reverseValues(data[start:start+chunkSize], valueSize)
		}
	}

	if reverseBlocks {
		list.Reverse()
	}
	s.logger.Debug("reversed buffer",
		zap.Stringer("id", id),
		zap.Int("valueSize", valueSize),
		zap.Int("chunkSize", chunkSize))
}
