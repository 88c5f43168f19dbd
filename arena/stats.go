package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/arenakit/internal/conv"
)

// Stats tracks arena memory usage.
//
// Note on semantics:
//   - BytesAllocated: capacity of the blocks currently held
//   - BytesUsed: bytes requested by live allocations (before alignment)
//   - BytesWasted: padding added for alignment
//   - BlockCount: number of blocks currently held
//   - Allocs: number of live allocations
type Stats struct {
	BytesAllocated int
	BytesUsed      int
	BytesWasted    int
	BlockCount     int
	Allocs         int
}

func (s Stats) String() string {
	return fmt.Sprintf("blocks: %d, allocated: %s, used: %s, wasted: %s, allocs: %d",
		s.BlockCount,
		ibytes(s.BytesAllocated),
		ibytes(s.BytesUsed),
		ibytes(s.BytesWasted),
		s.Allocs,
	)
}

func ibytes(n int) string {
	u, err := conv.IntToUint64(n)
	if err != nil {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(u)
}

// raise lifts every field of s to at least the matching field of o.
func (s *Stats) raise(o Stats) {
	s.BytesAllocated = max(s.BytesAllocated, o.BytesAllocated)
	s.BytesUsed = max(s.BytesUsed, o.BytesUsed)
	s.BytesWasted = max(s.BytesWasted, o.BytesWasted)
	s.BlockCount = max(s.BlockCount, o.BlockCount)
	s.Allocs = max(s.Allocs, o.Allocs)
}
