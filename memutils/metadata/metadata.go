package metadata

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/bitarena/memutils"
)

//go:generate mockgen -source metadata.go -destination mocks/mock_metadata.go -package mock_metadata

// BlockMetadata tracks which fixed-size blocks of a caller-supplied memory region are in use. It manages
// allocations within the region, allowing allocations to be requested and freed, as well as enumerated
// and queried.
type BlockMetadata interface {
	// Init must be called before the BlockMetadata is used. The implementation carves its own bookkeeping
	// out of the front of memory and manages the remainder as block storage. memory must be zero-filled;
	// Init trusts this and does not clear it.
	Init(memory []byte)
	// Layout returns the partitioning of the memory passed to Init
	Layout() Layout
	// Size retrieves the size in bytes of the block storage
	Size() int
	// BlockSize retrieves the size in bytes of a single block
	BlockSize() int

	// Validate performs internal consistency checks on the metadata. These checks are linear in the
	// number of blocks. When the implementation is functioning correctly, it should not be possible
	// for this method to return an error, but this may assist in diagnosing corruption of the memory
	// the metadata lives in.
	Validate() error
	// AllocationCount returns the number of allocations currently live in the implementation
	AllocationCount() int
	// FreeRegionsCount returns the number of maximal runs of free blocks
	FreeRegionsCount() int
	// SumFreeSize returns the number of free bytes of block storage
	SumFreeSize() int
	// IsEmpty will return true if this metadata has no live allocations
	IsEmpty() bool

	// VisitAllRegions will call the provided callback once for each allocation and free run, in
	// address order. Iteration stops at the first error returned from the callback.
	VisitAllRegions(handleBlock func(handle BlockAllocationHandle, offset int, size int, free bool) error) error
	// AllocationListBegin will retrieve the handle of the lowest-addressed allocation, if any. If none exist,
	// the BlockAllocationHandle value NoAllocation will be returned.
	AllocationListBegin() (BlockAllocationHandle, error)
	// FindNextAllocation accepts a BlockAllocationHandle that maps to a live allocation and returns the
	// handle for the next live allocation, if any. If none exist, NoAllocation will be returned.
	//
	// The implementation must return an error if the provided handle does not map to a live allocation.
	FindNextAllocation(allocHandle BlockAllocationHandle) (BlockAllocationHandle, error)
	// AllocationOffset returns the offset in bytes within block storage of a live allocation
	AllocationOffset(allocHandle BlockAllocationHandle) (int, error)
	// AllocationSize returns the size in bytes of a live allocation, which is always a whole number of blocks
	AllocationSize(allocHandle BlockAllocationHandle) (int, error)

	// AddDetailedStatistics sums this metadata's allocation statistics into the statistics currently present
	// in the provided memutils.DetailedStatistics object.
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this metadata's allocation statistics into the statistics currently present in the
	// provided memutils.Statistics object.
	AddStatistics(stats *memutils.Statistics)
	// Snapshot copies the indices of used blocks and allocation heads into roaring bitmaps
	Snapshot() (used *roaring.Bitmap, heads *roaring.Bitmap)

	// Clear instantly frees all allocations
	Clear()
	// BlockJsonData populates a json object with information about this metadata
	BlockJsonData(json *jwriter.ObjectState)

	// CreateAllocationRequest retrieves an AllocationRequest object indicating where the implementation
	// would place an allocation of allocSize bytes. The bool return is false when no free run is large
	// enough. An error is returned when allocSize is not positive. No state is changed.
	CreateAllocationRequest(allocSize int) (bool, AllocationRequest, error)
	// Alloc commits an AllocationRequest object. The implementation must return an error, and change
	// nothing, if the request no longer describes a free, in-range run of blocks.
	Alloc(request AllocationRequest) error
	// Free releases a live allocation, causing its blocks to become free once again. It returns the
	// size in bytes of the released allocation.
	//
	// The implementation must return an error wrapping memutils.InvalidFreeError, and change nothing,
	// if the provided handle does not map to the start of a live allocation.
	Free(allocHandle BlockAllocationHandle) (int, error)
}

// BlockMetadataBase is a simple struct that provides a few shared utilities for BlockMetadata
// implementations in the memutils module.
type BlockMetadataBase struct {
	size      int
	blockSize int
}

// NewBlockMetadata creates a new BlockMetadataBase for blocks of blockSize bytes
func NewBlockMetadata(blockSize int) BlockMetadataBase {
	return BlockMetadataBase{
		blockSize: blockSize,
	}
}

// Init records the size in bytes of the block storage
func (m *BlockMetadataBase) Init(size int) {
	m.size = size
}

// Size returns the size of the block storage in bytes
func (m *BlockMetadataBase) Size() int { return m.size }

// BlockSize returns the size of a single block in bytes
func (m *BlockMetadataBase) BlockSize() int { return m.blockSize }

// BlockJsonData populates a json object with the summary fields shared by all implementations
func (m *BlockMetadataBase) BlockJsonData(json *jwriter.ObjectState, unusedBytes, allocationCount, unusedRangeCount int) {
	json.Name("TotalBytes").Int(m.Size())
	json.Name("UnusedBytes").Int(unusedBytes)
	json.Name("Allocations").Int(allocationCount)
	json.Name("UnusedRanges").Int(unusedRangeCount)
}
