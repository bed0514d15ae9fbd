package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// DivRoundUp divides value by divisor, rounding any remainder up to the next whole number
func DivRoundUp[T Number](value, divisor T) T {
	return (value + divisor - 1) / divisor
}
