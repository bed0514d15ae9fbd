package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// OutOfSpaceError is returned when no free run of blocks is large enough for a requested allocation
var OutOfSpaceError error = errors.New("no space available")

// InvalidFreeError is returned when a free is requested for memory that is not the start of a live allocation
var InvalidFreeError error = errors.New("not a valid allocation start")

// InvalidSizeError is returned when an allocation of zero or negative size is requested
var InvalidSizeError error = errors.New("allocation size must be positive")

// InvalidBlockSizeError is returned when an allocator is created with a block size of zero or less
var InvalidBlockSizeError error = errors.New("block size must be positive")
