package memutils

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCheckPow2(t *testing.T) {
	for _, value := range []int{1, 2, 8, 16, 64, 1 << 20} {
		require.NoError(t, CheckPow2(value, "value"))
	}

	for _, value := range []int{0, -1, -8, 3, 12, 100} {
		err := CheckPow2(value, "value")
		require.True(t, errors.Is(err, PowerOfTwoError), "value %d", value)
	}

	require.NoError(t, CheckPow2(uint(32), "value"))
	require.Error(t, CheckPow2(uint(0), "value"))
}

func TestDivRoundUp(t *testing.T) {
	require.Equal(t, 0, DivRoundUp(0, 16))
	require.Equal(t, 1, DivRoundUp(1, 16))
	require.Equal(t, 1, DivRoundUp(16, 16))
	require.Equal(t, 2, DivRoundUp(17, 16))
	require.Equal(t, uint(3), DivRoundUp(uint(33), uint(16)))
}
