package memutils

import (
	"github.com/pkg/errors"
)

// Region is a zero-filled range of memory suitable for handing to an allocator. Regions created by
// MapAnonymousRegion live outside the Go heap where the platform allows it, so they are not scanned
// by the garbage collector and must be released with Close.
type Region struct {
	data  []byte
	unmap func([]byte) error
}

// MapAnonymousRegion reserves size bytes of zero-filled memory.
func MapAnonymousRegion(size int) (*Region, error) {
	if size <= 0 {
		return nil, errors.Errorf("region size must be positive, got %d", size)
	}

	data, unmap, err := mapAnonymous(size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map %d bytes", size)
	}

	return &Region{data: data, unmap: unmap}, nil
}

// Bytes returns the region's memory. The slice must not be used after Close.
func (r *Region) Bytes() []byte { return r.data }

// Size returns the size of the region in bytes
func (r *Region) Size() int { return len(r.data) }

// Close releases the region. Calling Close more than once is a no-op.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}

	data := r.data
	r.data = nil
	if r.unmap == nil {
		return nil
	}
	return r.unmap(data)
}
