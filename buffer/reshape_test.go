package buffer

import (
	"testing"

	"github.com/maxgerhardt/agon-vdp/types"
	"github.com/stretchr/testify/assert"
)

func TestStore_Copy(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})
	seed(t, s, 2, []byte{3, 4})

	s.Copy(10, []types.BufferID{1, 2})
	assert.Equal(t, []byte{1, 2, 3, 4}, contents(t, s, 10))

	// deep copy: mutating the source leaves the copy alone
	list, _ := s.Get(1)
	first, err := list.Get(0)
	assert.NoError(t, err)
	first.SetByte(0, 0x99)
	assert.Equal(t, []byte{1, 2, 3, 4}, contents(t, s, 10))
}

func TestStore_CopySelfSource(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})
	seed(t, s, 2, []byte{3})

	// target in its own source list works because the result is built
	// in scratch before the replace
	s.Copy(1, []types.BufferID{1, 2, 1})
	assert.Equal(t, []byte{1, 2, 3, 1, 2}, contents(t, s, 1))
}

func TestStore_CopyRef(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})

	s.CopyRef(10, []types.BufferID{1})
	assert.Equal(t, []byte{1, 2}, contents(t, s, 10))

	// aliased: mutating the source shows in the reference
	list, _ := s.Get(1)
	first, err := list.Get(0)
	assert.NoError(t, err)
	first.SetByte(0, 0x99)
	assert.Equal(t, []byte{0x99, 2}, contents(t, s, 10))
}

func TestStore_CopyAndConsolidate(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})
	seed(t, s, 2, []byte{3, 4})

	s.CopyAndConsolidate(10, []types.BufferID{1, 2})
	list, exists := s.Get(10)
	assert.True(t, exists)
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, []byte{1, 2, 3, 4}, contents(t, s, 10))

	// a matching-length target block is reused in place
	before, err := list.Get(0)
	assert.NoError(t, err)
	s.CopyAndConsolidate(10, []types.BufferID{2, 1})
	after, err := list.Get(0)
	assert.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, []byte{3, 4, 1, 2}, contents(t, s, 10))
}

func TestStore_Consolidate(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})
	seed(t, s, 1, []byte{3})

	s.Consolidate(1)
	list, _ := s.Get(1)
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, []byte{1, 2, 3}, contents(t, s, 1))

	// single-block buffers are untouched
	before, err := list.Get(0)
	assert.NoError(t, err)
	s.Consolidate(1)
	after, err := list.Get(0)
	assert.NoError(t, err)
	assert.Same(t, before, after)
}

func TestStore_SplitInto(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	seed(t, s, 7, []byte{0xFF}) // stale content gets cleared

	s.SplitInto(1, 4, []types.BufferID{7, 8, 9}, false)
	assert.Equal(t, []byte{0, 1, 2, 3}, contents(t, s, 7))
	assert.Equal(t, []byte{4, 5, 6, 7}, contents(t, s, 8))
	assert.Equal(t, []byte{8, 9}, contents(t, s, 9))
}

func TestStore_SplitIntoCycles(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{0, 1, 2, 3, 4, 5})

	// three chunks across two targets: the third wraps back onto 7
	s.SplitInto(1, 2, []types.BufferID{7, 8}, false)
	assert.Equal(t, []byte{0, 1, 4, 5}, contents(t, s, 7))
	assert.Equal(t, []byte{2, 3}, contents(t, s, 8))
}

func TestStore_SplitIntoFromTarget(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{0, 1, 2, 3, 4, 5})
	seed(t, s, 8, []byte{0xFF})

	// consecutive ids starting at 7, each cleared as it receives
	s.SplitInto(1, 2, []types.BufferID{7}, true)
	assert.Equal(t, []byte{0, 1}, contents(t, s, 7))
	assert.Equal(t, []byte{2, 3}, contents(t, s, 8))
	assert.Equal(t, []byte{4, 5}, contents(t, s, 9))
}

func TestStore_SplitByInto(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	// width-2 pieces dealt round robin into two groups
	s.SplitByInto(1, 2, 2, []types.BufferID{7, 8}, false)
	assert.Equal(t, []byte{1, 2, 5, 6}, contents(t, s, 7))
	assert.Equal(t, []byte{3, 4, 7, 8}, contents(t, s, 8))

	// each group lands as a single consolidated block
	list, _ := s.Get(7)
	assert.Equal(t, 1, list.Len())
}

func TestStore_SpreadInto(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})
	seed(t, s, 1, []byte{3})
	seed(t, s, 1, []byte{4})

	s.SpreadInto(1, []types.BufferID{7, 8}, false)
	assert.Equal(t, []byte{1, 2, 4}, contents(t, s, 7))
	assert.Equal(t, []byte{3}, contents(t, s, 8))

	// blocks are aliased, not copied
	src, _ := s.Get(1)
	first, err := src.Get(0)
	assert.NoError(t, err)
	first.SetByte(0, 0x99)
	assert.Equal(t, []byte{0x99, 2, 4}, contents(t, s, 7))
}

func TestStore_SpreadIntoFromTarget(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})
	seed(t, s, 1, []byte{3})
	seed(t, s, 8, []byte{0xFF})

	// consecutive ids from 7, each cleared just before it receives
	s.SpreadInto(1, []types.BufferID{7}, true)
	assert.Equal(t, []byte{1, 2}, contents(t, s, 7))
	assert.Equal(t, []byte{3}, contents(t, s, 8))
}

func TestStore_SpreadIntoSelfTarget(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1, 2})

	// the source listed among the targets is cleared first, so there is
	// nothing left to spread
	s.SpreadInto(1, []types.BufferID{1, 2}, false)
	assert.Empty(t, contents(t, s, 1))
	assert.Empty(t, contents(t, s, 2))
}

func TestStore_ReverseBlocks(t *testing.T) {
	s := testStore()
	seed(t, s, 1, []byte{1})
	seed(t, s, 1, []byte{2})

	s.ReverseBlocks(1)
	assert.Equal(t, []byte{2, 1}, contents(t, s, 1))
}

func TestStore_Reverse(t *testing.T) {
	type testCase struct {
		name          string
		data          []byte
		valueSize     int
		chunkSize     int
		reverseBlocks bool
		want          []byte
	}

	cases := []testCase{
		{
			name:      "bytes",
			data:      []byte{1, 2, 3, 4},
			valueSize: 1,
			want:      []byte{4, 3, 2, 1},
		},
		{
			name:      "16 bit values keep internal order",
			data:      []byte{1, 2, 3, 4},
			valueSize: 2,
			want:      []byte{3, 4, 1, 2},
		},
		{
			name:      "chunked reverses within each chunk",
			data:      []byte{1, 2, 3, 4},
			valueSize: 1,
			chunkSize: 2,
			want:      []byte{2, 1, 4, 3},
		},
		{
			name:      "non multiple aborts untouched",
			data:      []byte{1, 2, 3},
			valueSize: 2,
			want:      []byte{1, 2, 3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testStore()
			seed(t, s, 1, tc.data)
			s.Reverse(1, tc.valueSize, tc.chunkSize, tc.reverseBlocks)
			assert.Equal(t, tc.want, contents(t, s, 1))
		})
	}
}
