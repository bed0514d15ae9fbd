package bitalloc

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsTrackOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	allocator := readyAllocator(t, 16, make([]byte, 128), CreateOptions{Name: "frames", Registerer: reg})

	a, err := allocator.Allocate(17)
	require.NoError(t, err)
	_, err = allocator.Allocate(16)
	require.NoError(t, err)
	_, err = allocator.Allocate(0)
	require.Error(t, err)
	_, err = allocator.Allocate(1000)
	require.Error(t, err)
	require.NoError(t, allocator.Deallocate(a))
	require.Error(t, allocator.Deallocate(a))

	expected := `
# HELP bitarena_allocator_allocations_total Total number of successful allocations
# TYPE bitarena_allocator_allocations_total counter
bitarena_allocator_allocations_total{allocator="frames"} 2
# HELP bitarena_allocator_allocation_failures_total Total number of failed allocations by reason
# TYPE bitarena_allocator_allocation_failures_total counter
bitarena_allocator_allocation_failures_total{allocator="frames",reason="invalid_size"} 1
bitarena_allocator_allocation_failures_total{allocator="frames",reason="out_of_space"} 1
# HELP bitarena_allocator_deallocations_total Total number of successful deallocations
# TYPE bitarena_allocator_deallocations_total counter
bitarena_allocator_deallocations_total{allocator="frames"} 1
# HELP bitarena_allocator_invalid_frees_total Total number of deallocations rejected because the address was not a live allocation
# TYPE bitarena_allocator_invalid_frees_total counter
bitarena_allocator_invalid_frees_total{allocator="frames"} 1
# HELP bitarena_allocator_used_blocks Number of blocks held by live allocations
# TYPE bitarena_allocator_used_blocks gauge
bitarena_allocator_used_blocks{allocator="frames"} 1
# HELP bitarena_allocator_live_allocations Number of live allocations
# TYPE bitarena_allocator_live_allocations gauge
bitarena_allocator_live_allocations{allocator="frames"} 1
# HELP bitarena_allocator_capacity_blocks Number of blocks available for allocation
# TYPE bitarena_allocator_capacity_blocks gauge
bitarena_allocator_capacity_blocks{allocator="frames"} 7
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"bitarena_allocator_allocations_total",
		"bitarena_allocator_allocation_failures_total",
		"bitarena_allocator_deallocations_total",
		"bitarena_allocator_invalid_frees_total",
		"bitarena_allocator_used_blocks",
		"bitarena_allocator_live_allocations",
		"bitarena_allocator_capacity_blocks",
	))
}

func TestMetricsUnregisteredByDestroy(t *testing.T) {
	reg := prometheus.NewRegistry()
	allocator := readyAllocator(t, 16, make([]byte, 128), CreateOptions{Registerer: reg})

	count, err := testutil.GatherAndCount(reg, "bitarena_allocator_capacity_blocks")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, allocator.Destroy())

	count, err = testutil.GatherAndCount(reg, "bitarena_allocator_capacity_blocks")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestMetricsDistinguishAllocators(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := readyAllocator(t, 16, make([]byte, 128), CreateOptions{Name: "first", Registerer: reg})
	readyAllocator(t, 16, make([]byte, 256), CreateOptions{Name: "second", Registerer: reg})

	_, err := first.Allocate(16)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "bitarena_allocator_allocations_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestMetricsRejectDuplicateName(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := readyAllocator(t, 16, make([]byte, 128), CreateOptions{Name: "shared", Registerer: reg})

	allocation, err := first.Allocate(16)
	require.NoError(t, err)

	_, err = New(nil, 16, make([]byte, 128), CreateOptions{Name: "shared", Registerer: reg})
	var alreadyRegistered prometheus.AlreadyRegisteredError
	require.True(t, errors.As(err, &alreadyRegistered))

	// The live allocator keeps exporting its own metrics
	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 6, count)
	require.Equal(t, 1.0, testutil.ToFloat64(first.metrics.allocationsTotal))

	require.NoError(t, first.Deallocate(allocation))
	require.NoError(t, first.Destroy())

	count, err = testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	readyAllocator(t, 16, make([]byte, 128), CreateOptions{Name: "shared", Registerer: reg})
	count, err = testutil.GatherAndCount(reg, "bitarena_allocator_capacity_blocks")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
