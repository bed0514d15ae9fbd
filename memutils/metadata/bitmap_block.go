package metadata

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/bitarena/memutils"
	"github.com/vkngwrapper/bitarena/memutils/bitmap"
)

// BitmapBlockMetadata is a BlockMetadata implementation that tracks fixed-size blocks with two
// bitmaps stored at the front of the managed memory region:
//   - The used bitmap has a bit set for every block that belongs to a live allocation.
//   - The heads bitmap has a bit set only for the first block of each live allocation.
//
// Allocations are placed first-fit: the lowest-addressed run of free blocks that is large enough.
// Freeing walks forward from the head clearing used bits until it reaches a free block or the head
// of the next allocation. No other state is kept, so every query is answered by scanning the bitmaps.
//
// The W type parameter selects the bitmap word width. It changes how much space the bitmaps occupy,
// but never where allocations are placed.
type BitmapBlockMetadata[W bitmap.Word] struct {
	BlockMetadataBase

	layout Layout
	used   bitmap.Bitmap[W]
	heads  bitmap.Bitmap[W]
}

var _ BlockMetadata = &BitmapBlockMetadata[uint16]{}

// NewBitmapBlockMetadata creates a new BitmapBlockMetadata for blocks of blockSize bytes. Init must be
// called before it is used.
func NewBitmapBlockMetadata[W bitmap.Word](blockSize int) (*BitmapBlockMetadata[W], error) {
	if blockSize <= 0 {
		return nil, errors.Wrapf(memutils.InvalidBlockSizeError, "block size is %d", blockSize)
	}

	return &BitmapBlockMetadata[W]{
		BlockMetadataBase: NewBlockMetadata(blockSize),
	}, nil
}

// Init carves the used and heads bitmaps out of the front of memory and manages the remainder as
// block storage. memory must be zero-filled.
func (m *BitmapBlockMetadata[W]) Init(memory []byte) {
	m.layout = ComputeLayout[W](m.BlockSize(), len(memory))
	m.BlockMetadataBase.Init(m.layout.StorageSize)

	var usedBytes, headsBytes []byte
	if !m.layout.Degenerate() {
		usedBytes = memory[:m.layout.HeadsOffset]
		headsBytes = memory[m.layout.HeadsOffset:m.layout.StorageOffset]
	}

	var err error
	m.used, err = bitmap.New[W](usedBytes, m.layout.BlockCount)
	if err != nil {
		panic(errors.Wrap(err, "used bitmap does not fit its layout"))
	}
	m.heads, err = bitmap.New[W](headsBytes, m.layout.BlockCount)
	if err != nil {
		panic(errors.Wrap(err, "heads bitmap does not fit its layout"))
	}
}

// Layout returns the partitioning of the memory passed to Init
func (m *BitmapBlockMetadata[W]) Layout() Layout { return m.layout }

// AllocationCount returns the number of live allocations, which is the number of head bits set
func (m *BitmapBlockMetadata[W]) AllocationCount() int {
	return m.heads.Count()
}

// IsEmpty will return true if this metadata has no live allocations
func (m *BitmapBlockMetadata[W]) IsEmpty() bool {
	_, found := m.heads.NextSet(0)
	return !found
}

// SumFreeSize returns the number of free bytes of block storage
func (m *BitmapBlockMetadata[W]) SumFreeSize() int {
	return (m.layout.BlockCount - m.used.Count()) * m.BlockSize()
}

// FreeRegionsCount returns the number of maximal runs of free blocks
func (m *BitmapBlockMetadata[W]) FreeRegionsCount() int {
	var count int
	for index := 0; ; {
		start, found := m.used.NextClear(index)
		if !found {
			return count
		}
		count++

		end, found := m.used.NextSet(start)
		if !found {
			return count
		}
		index = end
	}
}

// runEnd returns the index one past the last block of the allocation whose head is at index
func (m *BitmapBlockMetadata[W]) runEnd(index int) int {
	end := index + 1
	for end < m.layout.BlockCount && m.used.Test(end) && !m.heads.Test(end) {
		end++
	}
	return end
}

func (m *BitmapBlockMetadata[W]) headIndex(allocHandle BlockAllocationHandle) (int, error) {
	if allocHandle >= BlockAllocationHandle(m.layout.BlockCount) {
		return 0, errors.Wrapf(memutils.InvalidFreeError, "handle %d is outside of the %d usable blocks", allocHandle, m.layout.BlockCount)
	}

	index := int(allocHandle)
	if !m.heads.Test(index) {
		return 0, errors.Wrapf(memutils.InvalidFreeError, "block %d is not the head of an allocation", index)
	}

	return index, nil
}

// Validate performs internal consistency checks on the bitmaps
func (m *BitmapBlockMetadata[W]) Validate() error {
	if !m.used.TailClear() {
		return errors.New("the used bitmap has bits set beyond the last usable block")
	}
	if !m.heads.TailClear() {
		return errors.New("the heads bitmap has bits set beyond the last usable block")
	}

	for index := 0; index < m.layout.BlockCount; {
		if !m.used.Test(index) {
			if m.heads.Test(index) {
				return errors.Errorf("block %d is marked as an allocation head but is not marked as used", index)
			}
			index++
			continue
		}

		if !m.heads.Test(index) {
			return errors.Errorf("the used run containing block %d does not begin with an allocation head", index)
		}
		index = m.runEnd(index)
	}

	if m.layout.StorageSize != m.layout.BlockCount*m.BlockSize() {
		return errors.Errorf("block storage is %d bytes, but %d blocks of %d bytes are managed", m.layout.StorageSize, m.layout.BlockCount, m.BlockSize())
	}

	return nil
}

// VisitAllRegions will call the provided callback once for each allocation and free run, in address order
func (m *BitmapBlockMetadata[W]) VisitAllRegions(handleBlock func(handle BlockAllocationHandle, offset int, size int, free bool) error) error {
	blockSize := m.BlockSize()
	for index := 0; index < m.layout.BlockCount; {
		var end int
		free := !m.used.Test(index)
		if free {
			next, found := m.used.NextSet(index)
			if !found {
				next = m.layout.BlockCount
			}
			end = next
		} else {
			end = m.runEnd(index)
		}

		err := handleBlock(BlockAllocationHandle(index), index*blockSize, (end-index)*blockSize, free)
		if err != nil {
			return err
		}
		index = end
	}

	return nil
}

// AllocationListBegin will retrieve the handle of the lowest-addressed allocation, or NoAllocation
func (m *BitmapBlockMetadata[W]) AllocationListBegin() (BlockAllocationHandle, error) {
	index, found := m.heads.NextSet(0)
	if !found {
		return NoAllocation, nil
	}

	return BlockAllocationHandle(index), nil
}

// FindNextAllocation returns the handle of the allocation following allocHandle, or NoAllocation
func (m *BitmapBlockMetadata[W]) FindNextAllocation(allocHandle BlockAllocationHandle) (BlockAllocationHandle, error) {
	index, err := m.headIndex(allocHandle)
	if err != nil {
		return NoAllocation, err
	}

	next, found := m.heads.NextSet(index + 1)
	if !found {
		return NoAllocation, nil
	}

	return BlockAllocationHandle(next), nil
}

// AllocationOffset returns the offset in bytes within block storage of a live allocation
func (m *BitmapBlockMetadata[W]) AllocationOffset(allocHandle BlockAllocationHandle) (int, error) {
	index, err := m.headIndex(allocHandle)
	if err != nil {
		return 0, err
	}

	return index * m.BlockSize(), nil
}

// AllocationSize returns the size in bytes of a live allocation
func (m *BitmapBlockMetadata[W]) AllocationSize(allocHandle BlockAllocationHandle) (int, error) {
	index, err := m.headIndex(allocHandle)
	if err != nil {
		return 0, err
	}

	return (m.runEnd(index) - index) * m.BlockSize(), nil
}

// AddDetailedStatistics sums this metadata's allocation statistics into stats
func (m *BitmapBlockMetadata[W]) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.RegionCount++
	stats.RegionBytes += m.Size()

	_ = m.VisitAllRegions(func(handle BlockAllocationHandle, offset int, size int, free bool) error {
		if free {
			stats.AddUnusedRange(size)
		} else {
			stats.AddAllocation(size)
		}
		return nil
	})
}

// AddStatistics sums this metadata's allocation statistics into stats
func (m *BitmapBlockMetadata[W]) AddStatistics(stats *memutils.Statistics) {
	stats.RegionCount++
	stats.RegionBytes += m.Size()
	stats.AllocationCount += m.heads.Count()
	stats.AllocationBytes += m.used.Count() * m.BlockSize()
}

// Snapshot copies the indices of used blocks and allocation heads into roaring bitmaps
func (m *BitmapBlockMetadata[W]) Snapshot() (used *roaring.Bitmap, heads *roaring.Bitmap) {
	return m.used.ToRoaring(), m.heads.ToRoaring()
}

// Clear instantly frees all allocations by zeroing both bitmaps
func (m *BitmapBlockMetadata[W]) Clear() {
	m.used.ClearAll()
	m.heads.ClearAll()
}

// BlockJsonData populates a json object with information about this metadata
func (m *BitmapBlockMetadata[W]) BlockJsonData(json *jwriter.ObjectState) {
	m.BlockMetadataBase.BlockJsonData(json, m.SumFreeSize(), m.AllocationCount(), m.FreeRegionsCount())
	json.Name("BlockSize").Int(m.BlockSize())
	json.Name("BlockCount").Int(m.layout.BlockCount)
	json.Name("WordBits").Int(bitmap.WordBits[W]())
}

// CreateAllocationRequest finds the lowest-addressed run of free blocks that can hold allocSize bytes.
// It returns false if there is none.
func (m *BitmapBlockMetadata[W]) CreateAllocationRequest(allocSize int) (bool, AllocationRequest, error) {
	if allocSize <= 0 {
		return false, AllocationRequest{}, errors.Wrapf(memutils.InvalidSizeError, "requested %d bytes", allocSize)
	}

	blockSize := m.BlockSize()
	blockCount := memutils.DivRoundUp(allocSize, blockSize)
	if blockCount > m.layout.BlockCount {
		return false, AllocationRequest{}, nil
	}

	start, found := m.used.FindClearRun(blockCount)
	if !found {
		return false, AllocationRequest{}, nil
	}

	return true, AllocationRequest{
		BlockAllocationHandle: BlockAllocationHandle(start),
		Size:                  allocSize,
		Item: Suballocation{
			Offset: start * blockSize,
			Size:   blockCount * blockSize,
		},
		BlockIndex: start,
		BlockCount: blockCount,
	}, nil
}

// Alloc commits an AllocationRequest, marking its blocks used and its first block as a head
func (m *BitmapBlockMetadata[W]) Alloc(request AllocationRequest) error {
	start, count := request.BlockIndex, request.BlockCount
	if count <= 0 {
		return errors.Errorf("allocation request covers %d blocks", count)
	}
	if start < 0 || start+count > m.layout.BlockCount {
		return errors.Errorf("allocation request for blocks [%d, %d) lies outside of the %d usable blocks", start, start+count, m.layout.BlockCount)
	}
	if request.BlockAllocationHandle != BlockAllocationHandle(start) {
		return errors.Errorf("allocation request handle %d does not match its first block %d", request.BlockAllocationHandle, start)
	}

	next, found := m.used.NextSet(start)
	if found && next < start+count {
		return errors.Errorf("allocation request for blocks [%d, %d) overlaps the used block %d", start, start+count, next)
	}

	if err := m.used.SetRange(start, count); err != nil {
		return err
	}
	if err := m.heads.Set(start); err != nil {
		return err
	}

	memutils.DebugValidate(m)
	return nil
}

// Free releases the allocation whose head is allocHandle and returns its size in bytes. Used bits are
// cleared from the head forward until a free block, the head of the next allocation, or the end of block
// storage is reached.
func (m *BitmapBlockMetadata[W]) Free(allocHandle BlockAllocationHandle) (int, error) {
	index, err := m.headIndex(allocHandle)
	if err != nil {
		return 0, err
	}

	end := m.runEnd(index)
	if err := m.heads.Unset(index); err != nil {
		return 0, err
	}
	if err := m.used.UnsetRange(index, end-index); err != nil {
		return 0, err
	}

	memutils.DebugValidate(m)
	return (end - index) * m.BlockSize(), nil
}
