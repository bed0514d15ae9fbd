package bitalloc

import (
	"fmt"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/bitarena/bitalloc/internal/utils"
	"github.com/vkngwrapper/bitarena/memutils"
	"github.com/vkngwrapper/bitarena/memutils/metadata"
	"golang.org/x/exp/slog"
)

// Allocator hands out whole blocks of a caller-supplied memory region. Allocations are
// placed first-fit, and each is identified by the address of its first byte.
type Allocator struct {
	logger      *slog.Logger
	mutex       utils.OptionalRWMutex
	name        string
	createFlags CreateFlags
	blockSize   int

	metadata metadata.BlockMetadata
	storage  []byte

	registerer prometheus.Registerer
	metrics    *allocatorMetrics
}

// Name returns the name provided in CreateOptions, or "default"
func (a *Allocator) Name() string { return a.name }

// BlockSize returns the size in bytes of a single block
func (a *Allocator) BlockSize() int { return a.blockSize }

// Capacity returns the size in bytes of block storage, the largest allocation that could ever succeed
func (a *Allocator) Capacity() int { return len(a.storage) }

// StorageBase returns the address of the first byte of block storage, or nil if the allocator has none
func (a *Allocator) StorageBase() unsafe.Pointer {
	if len(a.storage) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(a.storage))
}

// Layout returns the partitioning of the memory region between bitmaps and block storage
func (a *Allocator) Layout() metadata.Layout {
	return a.metadata.Layout()
}

// Allocate reserves the lowest-addressed run of free blocks that can hold size bytes. The returned slice
// has length size and a capacity extending to the end of the last reserved block.
//
// An error wrapping memutils.InvalidSizeError is returned if size is not positive, and one wrapping
// memutils.OutOfSpaceError if no free run is large enough. The allocator is unchanged on error.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	a.logger.Debug("Allocator::Allocate", slog.Int("Size", size))

	a.mutex.Lock()
	defer a.mutex.Unlock()

	success, request, err := a.metadata.CreateAllocationRequest(size)
	if err != nil {
		a.metrics.allocationFailed(failureReason(err))
		return nil, errors.Wrapf(err, "failed to allocate %d bytes", size)
	}

	if !success {
		freeSize := a.metadata.SumFreeSize()
		a.logger.Debug("  Allocator::Allocate FAILED", slog.Int("Size", size), slog.Int("FreeSize", freeSize))
		a.metrics.allocationFailed(reasonOutOfSpace)
		return nil, errors.Wrapf(memutils.OutOfSpaceError, "failed to allocate %d bytes with %d bytes free", size, freeSize)
	}

	err = a.metadata.Alloc(request)
	if err != nil {
		a.metrics.allocationFailed(reasonRejected)
		return nil, errors.Wrapf(err, "failed to commit allocation of %d bytes at offset %d", size, request.Item.Offset)
	}
	a.metrics.allocated(request.BlockCount)

	offset := request.Item.Offset
	end := offset + request.Item.Size
	return a.storage[offset : offset+size : end], nil
}

// Deallocate releases the allocation that begins at the first byte of allocation. The slice must start
// exactly where a slice returned from Allocate started; reslicing its length or capacity is fine.
func (a *Allocator) Deallocate(allocation []byte) error {
	return a.DeallocatePointer(unsafe.Pointer(unsafe.SliceData(allocation)))
}

// DeallocatePointer releases the allocation that begins at ptr.
//
// An error wrapping memutils.InvalidFreeError is returned, and nothing is changed, if ptr lies outside
// block storage, is not on a block boundary, or is not the first block of a live allocation. This includes
// pointers that were already freed and pointers into the middle of a live allocation.
func (a *Allocator) DeallocatePointer(ptr unsafe.Pointer) error {
	a.logger.Debug("Allocator::Deallocate", slog.String("Pointer", fmt.Sprintf("%p", ptr)))

	a.mutex.Lock()
	defer a.mutex.Unlock()

	handle, err := a.handleForPointer(ptr)
	if err != nil {
		a.metrics.invalidFree()
		return err
	}

	size, err := a.metadata.Free(handle)
	if err != nil {
		a.metrics.invalidFree()
		return errors.Wrapf(err, "failed to free %p", ptr)
	}
	a.metrics.freed(size / a.blockSize)

	return nil
}

func (a *Allocator) handleForPointer(ptr unsafe.Pointer) (metadata.BlockAllocationHandle, error) {
	if len(a.storage) == 0 {
		return metadata.NoAllocation, errors.Wrapf(memutils.InvalidFreeError, "allocator has no block storage to free %p from", ptr)
	}

	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.storage)))
	address := uintptr(ptr)
	if address < base || address-base >= uintptr(len(a.storage)) {
		return metadata.NoAllocation, errors.Wrapf(memutils.InvalidFreeError, "pointer %p lies outside of block storage", ptr)
	}

	offset := int(address - base)
	if offset%a.blockSize != 0 {
		return metadata.NoAllocation, errors.Wrapf(memutils.InvalidFreeError, "pointer %p is %d bytes into a block", ptr, offset%a.blockSize)
	}

	return metadata.BlockAllocationHandle(offset / a.blockSize), nil
}

// IsEmpty returns true if there are no live allocations
func (a *Allocator) IsEmpty() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.metadata.IsEmpty()
}

// Validate checks the allocation bitmaps for internal consistency. An error indicates the
// bitmaps were overwritten by something other than the allocator.
func (a *Allocator) Validate() error {
	a.logger.Debug("Allocator::Validate")

	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return errors.Wrapf(a.metadata.Validate(), "allocator %s failed validation", a.name)
}

// CalculateStatistics overwrites stats with the current occupancy of the allocator
func (a *Allocator) CalculateStatistics(stats *memutils.DetailedStatistics) {
	a.logger.Debug("Allocator::CalculateStatistics")

	a.mutex.RLock()
	defer a.mutex.RUnlock()

	stats.Clear()
	a.metadata.AddDetailedStatistics(stats)
}

// Utilization returns the fraction of block storage held by live allocations
func (a *Allocator) Utilization() float64 {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	var stats memutils.Statistics
	a.metadata.AddStatistics(&stats)
	return stats.Utilization()
}

// Snapshot copies the indices of used blocks and of allocation heads into roaring bitmaps
func (a *Allocator) Snapshot() (used *roaring.Bitmap, heads *roaring.Bitmap) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.metadata.Snapshot()
}

// BuildStatsString returns a JSON document describing the allocator's occupancy. If detailedMap is true,
// it also lists every allocation and free run.
func (a *Allocator) BuildStatsString(detailedMap bool) string {
	a.logger.Debug("Allocator::BuildStatsString")

	a.mutex.RLock()
	defer a.mutex.RUnlock()

	var stats memutils.DetailedStatistics
	stats.Clear()
	a.metadata.AddDetailedStatistics(&stats)

	writer := jwriter.NewWriter()
	root := writer.Object()

	root.Name("Name").String(a.name)
	root.Name("Flags").String(a.createFlags.String())

	total := root.Name("Total").Object()
	printDetailedStatistics(&total, &stats)
	total.End()

	if detailedMap {
		region := root.Name("Region").Object()
		a.metadata.BlockJsonData(&region)
		a.printDetailedMapAllocations(&region)
		region.End()
	}

	root.End()
	return string(writer.Bytes())
}

func printDetailedStatistics(json *jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("RegionCount").Int(stats.RegionCount)
	json.Name("RegionBytes").Int(stats.RegionBytes)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)

	if stats.AllocationCount > 1 {
		sizes := json.Name("AllocationSize").Object()
		sizes.Name("Min").Int(stats.AllocationSizeMin)
		sizes.Name("Max").Int(stats.AllocationSizeMax)
		sizes.End()
	}

	if stats.UnusedRangeCount > 1 {
		sizes := json.Name("UnusedRangeSize").Object()
		sizes.Name("Min").Int(stats.UnusedRangeSizeMin)
		sizes.Name("Max").Int(stats.UnusedRangeSizeMax)
		sizes.End()
	}
}

func (a *Allocator) printDetailedMapAllocations(json *jwriter.ObjectState) {
	arrayState := json.Name("Suballocations").Array()
	defer arrayState.End()

	_ = a.metadata.VisitAllRegions(
		func(handle metadata.BlockAllocationHandle, offset int, size int, free bool) error {
			obj := arrayState.Object()
			defer obj.End()

			obj.Name("Offset").Int(offset)
			if free {
				obj.Name("Type").String("FREE")
			} else {
				obj.Name("Type").String("ALLOCATION")
			}
			obj.Name("Size").Int(size)

			return nil
		})
}

// Reset frees every live allocation at once. Any slices previously returned from Allocate must no
// longer be used.
func (a *Allocator) Reset() {
	a.logger.Debug("Allocator::Reset")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.logUnreleasedMemory()
	a.metadata.Clear()
	a.metrics.reset()
}

// Destroy unregisters the allocator's metrics and detaches it from its memory region. It fails if
// allocations are still live; the allocator is left usable in that case. Once destroyed, every
// allocation fails with memutils.OutOfSpaceError and every deallocation with memutils.InvalidFreeError.
func (a *Allocator) Destroy() error {
	a.logger.Debug("Allocator::Destroy")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if !a.metadata.IsEmpty() {
		a.logUnreleasedMemory()
		return errors.Errorf("allocator %s still has %d allocations that remain unfreed", a.name, a.metadata.AllocationCount())
	}

	if a.registerer != nil {
		a.metrics.unregister(a.registerer)
		a.registerer = nil
	}
	a.metadata.Init(nil)
	a.storage = nil
	a.metrics.capacityBlocks.Set(0)

	return nil
}

func (a *Allocator) logUnreleasedMemory() {
	err := a.metadata.VisitAllRegions(func(handle metadata.BlockAllocationHandle, offset int, size int, free bool) error {
		if free {
			return nil
		}

		a.logger.Warn("[UNRELEASED MEMORY] allocation still live",
			slog.Int("Offset", offset),
			slog.Int("Size", size),
		)
		return nil
	})
	if err != nil {
		a.logger.Warn("[UNRELEASED MEMORY] error while iterating unreleased memory", slog.Any("error", err))
	}
}
