//go:build !unix

package memutils

// Platforms without anonymous mmap fall back to a heap allocation, which the runtime zeroes.
func mapAnonymous(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), nil, nil
}
