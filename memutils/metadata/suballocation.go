package metadata

import "math"

// BlockAllocationHandle identifies a live allocation within a BlockMetadata. For bitmap metadata it is
// the index of the allocation's first block.
type BlockAllocationHandle uint64

const (
	NoAllocation BlockAllocationHandle = math.MaxUint64
)

// Suballocation describes a byte range within the managed block storage
type Suballocation struct {
	Offset int
	Size   int
}
