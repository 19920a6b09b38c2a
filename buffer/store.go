package buffer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/types"
	"go.uber.org/zap"
)

// Dependent is a subsystem that keys its own objects (bitmaps, audio
// samples) by buffer id. The store tells dependents when ids go away so
// derived state never outlives the bytes it was built from.
type Dependent interface {
	ClearID(id types.BufferID)
	Reset()
}

// Store owns every named buffer and its block list. Structure changes
// go through the store and are serialized with the lock; block contents
// are mutated only by the single interpreter thread.
type Store struct {
	lock       sync.RWMutex
	buffers    map[types.BufferID]*BlockList
	dependents []Dependent
	logger     *zap.Logger
}

type StoreOpt func(*Store) *Store

func WithLogger(l *zap.Logger) StoreOpt {
	return func(s *Store) *Store {
		if l != nil {
			s.logger = l
		}
		return s
	}
}

func NewStore(opts ...StoreOpt) *Store {
	s := &Store{
		buffers: make(map[types.BufferID]*BlockList),
		logger:  zap.L(),
	}
	for _, opt := range opts {
		s = opt(s)
	}
	s.logger = s.logger.Named("store")
	return s
}

func (s *Store) AddDependent(d Dependent) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.dependents = append(s.dependents, d)
}

func (s *Store) Get(id types.BufferID) (*BlockList, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	list, exists := s.buffers[id]
	return list, exists
}

// ensure returns the list for id, creating the entry if absent.
// callers must hold the lock.
func (s *Store) ensure(id types.BufferID) *BlockList {
	list, exists := s.buffers[id]
	if !exists {
		list = NewBlockList()
		s.buffers[id] = list
	}
	return list
}

func (s *Store) IDs() []types.BufferID {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]types.BufferID, 0, len(s.buffers))
	for id := range s.buffers {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Write reads length bytes from src into a new block appended to id.
// Returns how many bytes were outstanding on a timeout; the partial
// block is discarded, never committed. The reserved id is accepted
// syntactically -- the stream is drained but nothing is stored.
func (s *Store) Write(id types.BufferID, length int, src stream.Source) int {
	data := make([]byte, length)

	remaining := stream.ReadInto(src, data)
	if remaining > 0 {
		// this discards the bytes we just read
		s.logger.Debug("write timed out",
			zap.Stringer("id", id),
			zap.Int("remaining", remaining))
		return remaining
	}

	if id.IsReserved() {
		s.logger.Debug("ignoring write to reserved id")
		return 0
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	list := s.ensure(id)
	list.Append(NewBlock(data))
	s.logger.Debug("stored stream",
		zap.Stringer("id", id),
		zap.Int("length", length),
		zap.Int("streams", list.Len()))
	return 0
}

// Create allocates a single writable zero-filled block for output
// redirection. Fails on the reserved id or an existing buffer.
func (s *Store) Create(id types.BufferID, size int) (*Block, error) {
	if id.IsReserved() {
		return nil, fmt.Errorf("create: %s is reserved", id)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exists := s.buffers[id]; exists {
		return nil, fmt.Errorf("create: %s already exists", id)
	}
	block := NewWritableBlock(size)
	list := NewBlockList()
	list.Append(block)
	s.buffers[id] = list
	s.logger.Debug("created buffer",
		zap.Stringer("id", id),
		zap.Int("size", size))
	return block, nil
}

// Clear removes a buffer and notifies dependents. The reserved id is
// the global reset: every buffer goes, and dependents drop all derived
// state.
func (s *Store) Clear(id types.BufferID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if id.IsReserved() {
		s.buffers = make(map[types.BufferID]*BlockList)
		for _, d := range s.dependents {
			d.Reset()
		}
		s.logger.Debug("cleared all buffers")
		return
	}
	if _, exists := s.buffers[id]; !exists {
		s.logger.Debug("clear: not found", zap.Stringer("id", id))
		return
	}
	delete(s.buffers, id)
	for _, d := range s.dependents {
		d.ClearID(id)
	}
	s.logger.Debug("cleared buffer", zap.Stringer("id", id))
}

// clearContent empties a buffer's block list without removing the
// entry, and clears dependent state keyed by the id. Used on reshape
// targets before they receive chunks. callers must hold the lock.
func (s *Store) clearContent(id types.BufferID) {
	if list, exists := s.buffers[id]; exists {
		list.Clear()
	}
	for _, d := range s.dependents {
		d.ClearID(id)
	}
}
