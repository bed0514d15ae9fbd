package bitalloc

import (
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/bitarena/memutils"
	"github.com/vkngwrapper/bitarena/memutils/metadata"
	mock_metadata "github.com/vkngwrapper/bitarena/memutils/metadata/mocks"
	"go.uber.org/mock/gomock"
)

func readyMockAllocator(t *testing.T, ctrl *gomock.Controller) (*mock_metadata.MockBlockMetadata, *Allocator) {
	memory := make([]byte, 128)
	md := mock_metadata.NewMockBlockMetadata(ctrl)

	md.EXPECT().Init(memory)
	md.EXPECT().Layout().Return(metadata.Layout{
		BlockSize:     16,
		RegionSize:    128,
		TotalBlocks:   8,
		WordBytes:     2,
		BitmapWords:   1,
		BitmapBytes:   4,
		HeadsOffset:   2,
		StorageOffset: 4,
		StorageSize:   112,
		BlockCount:    7,
	}).AnyTimes()
	md.EXPECT().BlockSize().Return(16).AnyTimes()

	allocator, err := newAllocator(nil, md, memory, CreateOptions{})
	require.NoError(t, err)
	require.Equal(t, 112, allocator.Capacity())

	return md, allocator
}

func TestAllocateRequestError(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	failure := errors.New("metadata failure")
	md.EXPECT().CreateAllocationRequest(32).Return(false, metadata.AllocationRequest{}, failure)

	_, err := allocator.Allocate(32)
	require.True(t, errors.Is(err, failure))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.allocationFailures.WithLabelValues(reasonInternal)))
	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.allocationsTotal))
}

func TestAllocateOutOfSpace(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	md.EXPECT().CreateAllocationRequest(32).Return(false, metadata.AllocationRequest{}, nil)
	md.EXPECT().SumFreeSize().Return(16)

	_, err := allocator.Allocate(32)
	require.True(t, errors.Is(err, memutils.OutOfSpaceError))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.allocationFailures.WithLabelValues(reasonOutOfSpace)))
}

func TestAllocateCommitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	request := metadata.AllocationRequest{
		BlockAllocationHandle: 2,
		Size:                  20,
		Item:                  metadata.Suballocation{Offset: 32, Size: 32},
		BlockIndex:            2,
		BlockCount:            2,
	}
	failure := errors.New("stale request")
	md.EXPECT().CreateAllocationRequest(20).Return(true, request, nil)
	md.EXPECT().Alloc(request).Return(failure)

	_, err := allocator.Allocate(20)
	require.True(t, errors.Is(err, failure))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.allocationFailures.WithLabelValues(reasonRejected)))
	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.usedBlocks))
}

func TestAllocateSlicesRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	request := metadata.AllocationRequest{
		BlockAllocationHandle: 2,
		Size:                  20,
		Item:                  metadata.Suballocation{Offset: 32, Size: 32},
		BlockIndex:            2,
		BlockCount:            2,
	}
	md.EXPECT().CreateAllocationRequest(20).Return(true, request, nil)
	md.EXPECT().Alloc(request).Return(nil)

	allocation, err := allocator.Allocate(20)
	require.NoError(t, err)
	require.Len(t, allocation, 20)
	require.Equal(t, 32, cap(allocation))
	require.Equal(t, unsafe.Add(allocator.StorageBase(), 32), unsafe.Pointer(unsafe.SliceData(allocation)))
	require.Equal(t, 2.0, testutil.ToFloat64(allocator.metrics.usedBlocks))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.liveAllocations))

	md.EXPECT().Free(metadata.BlockAllocationHandle(2)).Return(32, nil)

	require.NoError(t, allocator.Deallocate(allocation))
	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.usedBlocks))
	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.liveAllocations))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.deallocationsTotal))
}

func TestDeallocateMapsPointerToHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	md.EXPECT().Free(metadata.BlockAllocationHandle(6)).Return(0, errors.Wrap(memutils.InvalidFreeError, "not a head"))

	err := allocator.DeallocatePointer(unsafe.Add(allocator.StorageBase(), 96))
	require.True(t, errors.Is(err, memutils.InvalidFreeError))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.invalidFreesTotal))
}

func TestDeallocateFreeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	failure := errors.New("bitmap failure")
	md.EXPECT().Free(metadata.BlockAllocationHandle(0)).Return(0, failure)

	err := allocator.DeallocatePointer(allocator.StorageBase())
	require.True(t, errors.Is(err, failure))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.invalidFreesTotal))
	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.deallocationsTotal))
}

func TestDeallocateUsesFreedSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	allocator.metrics.allocated(3)
	allocator.metrics.allocated(1)

	// The run is measured by Free alone; no separate size lookup is expected
	md.EXPECT().Free(metadata.BlockAllocationHandle(1)).Return(48, nil)

	require.NoError(t, allocator.DeallocatePointer(unsafe.Add(allocator.StorageBase(), 16)))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.usedBlocks))
	require.Equal(t, 1.0, testutil.ToFloat64(allocator.metrics.liveAllocations))
}

func TestDeallocateRejectsBeforeMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, allocator := readyMockAllocator(t, ctrl)

	// No metadata calls are expected for addresses that cannot be a block start
	err := allocator.DeallocatePointer(unsafe.Add(allocator.StorageBase(), 17))
	require.True(t, errors.Is(err, memutils.InvalidFreeError))

	err = allocator.DeallocatePointer(unsafe.Add(allocator.StorageBase(), 112))
	require.True(t, errors.Is(err, memutils.InvalidFreeError))

	require.Equal(t, 2.0, testutil.ToFloat64(allocator.metrics.invalidFreesTotal))
}

func TestValidateWrapsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	md.EXPECT().Validate().Return(nil)
	require.NoError(t, allocator.Validate())

	failure := errors.New("corrupt")
	md.EXPECT().Validate().Return(failure)
	err := allocator.Validate()
	require.True(t, errors.Is(err, failure))
	require.Contains(t, err.Error(), "allocator default failed validation")
}

func TestResetLogsAndClears(t *testing.T) {
	ctrl := gomock.NewController(t)
	md, allocator := readyMockAllocator(t, ctrl)

	md.EXPECT().VisitAllRegions(gomock.Any()).DoAndReturn(
		func(handleBlock func(metadata.BlockAllocationHandle, int, int, bool) error) error {
			require.NoError(t, handleBlock(0, 0, 32, false))
			require.NoError(t, handleBlock(metadata.BlockAllocationHandle(2), 32, 80, true))
			return nil
		})
	md.EXPECT().Clear()

	allocator.metrics.allocated(2)
	allocator.Reset()

	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.usedBlocks))
	require.Equal(t, 0.0, testutil.ToFloat64(allocator.metrics.liveAllocations))
}
