package bitalloc

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/bitarena/memutils"
)

const (
	reasonInvalidSize = "invalid_size"
	reasonOutOfSpace  = "out_of_space"
	reasonRejected    = "rejected"
	reasonInternal    = "internal"
)

type allocatorMetrics struct {
	// Request counters
	allocationsTotal   prometheus.Counter
	deallocationsTotal prometheus.Counter

	// Error counters
	allocationFailures *prometheus.CounterVec
	invalidFreesTotal  prometheus.Counter

	// Occupancy, in blocks
	usedBlocks      prometheus.Gauge
	liveAllocations prometheus.Gauge
	capacityBlocks  prometheus.Gauge
}

func newAllocatorMetrics(name string) *allocatorMetrics {
	labels := prometheus.Labels{"allocator": name}

	return &allocatorMetrics{
		allocationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "allocations_total",
			Help:        "Total number of successful allocations",
			ConstLabels: labels,
		}),
		deallocationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "deallocations_total",
			Help:        "Total number of successful deallocations",
			ConstLabels: labels,
		}),
		allocationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "allocation_failures_total",
			Help:        "Total number of failed allocations by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		invalidFreesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "invalid_frees_total",
			Help:        "Total number of deallocations rejected because the address was not a live allocation",
			ConstLabels: labels,
		}),
		usedBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "used_blocks",
			Help:        "Number of blocks held by live allocations",
			ConstLabels: labels,
		}),
		liveAllocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "live_allocations",
			Help:        "Number of live allocations",
			ConstLabels: labels,
		}),
		capacityBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bitarena",
			Subsystem:   "allocator",
			Name:        "capacity_blocks",
			Help:        "Number of blocks available for allocation",
			ConstLabels: labels,
		}),
	}
}

func (m *allocatorMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.allocationsTotal,
		m.deallocationsTotal,
		m.allocationFailures,
		m.invalidFreesTotal,
		m.usedBlocks,
		m.liveAllocations,
		m.capacityBlocks,
	}
}

// register fails if any collector is already registered, which happens when another live allocator
// with the same name shares reg. Collectors registered before the failure are unregistered again.
func (m *allocatorMetrics) register(reg prometheus.Registerer) error {
	collectors := m.collectors()
	for i, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			for _, registered := range collectors[:i] {
				reg.Unregister(registered)
			}
			return err
		}
	}
	return nil
}

func (m *allocatorMetrics) unregister(reg prometheus.Registerer) {
	for _, collector := range m.collectors() {
		reg.Unregister(collector)
	}
}

func (m *allocatorMetrics) allocated(blocks int) {
	m.allocationsTotal.Inc()
	m.liveAllocations.Inc()
	m.usedBlocks.Add(float64(blocks))
}

func (m *allocatorMetrics) freed(blocks int) {
	m.deallocationsTotal.Inc()
	m.liveAllocations.Dec()
	m.usedBlocks.Sub(float64(blocks))
}

func (m *allocatorMetrics) allocationFailed(reason string) {
	m.allocationFailures.WithLabelValues(reason).Inc()
}

func (m *allocatorMetrics) invalidFree() {
	m.invalidFreesTotal.Inc()
}

func (m *allocatorMetrics) reset() {
	m.usedBlocks.Set(0)
	m.liveAllocations.Set(0)
}

func failureReason(err error) string {
	if errors.Is(err, memutils.InvalidSizeError) {
		return reasonInvalidSize
	}
	return reasonInternal
}
