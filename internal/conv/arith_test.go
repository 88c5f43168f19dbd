package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := AddInt(40, 2)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("max boundary", func(t *testing.T) {
		got, err := AddInt(math.MaxInt-1, 1)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, got)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := AddInt(math.MaxInt, 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("negative operand", func(t *testing.T) {
		_, err := AddInt(-1, 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestMulInt(t *testing.T) {
	got, err := MulInt(1<<20, 1<<10)
	require.NoError(t, err)
	assert.Equal(t, 1<<30, got)

	got, err = MulInt(0, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = MulInt(math.MaxInt/2+1, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulInt(-3, 2)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []int{1, 2, 4, 8, 4096, 1 << 40} {
		assert.True(t, IsPowerOfTwo(v), "%d", v)
	}
	for _, v := range []int{-8, 0, 3, 6, 4095, 1<<40 + 1} {
		assert.False(t, IsPowerOfTwo(v), "%d", v)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 4096: 4096, 4097: 8192}
	for in, want := range cases {
		got, err := NextPowerOfTwo(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "NextPowerOfTwo(%d)", in)
	}

	_, err := NextPowerOfTwo(math.MaxInt)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestAlignUp(t *testing.T) {
	got, err := AlignUp(13, 8)
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	got, err = AlignUp(16, 8)
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	got, err = AlignUp(0, 4096)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = AlignUp(math.MaxInt, 8)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestPadding(t *testing.T) {
	assert.Equal(t, 0, Padding(64, 16))
	assert.Equal(t, 15, Padding(65, 16))
	assert.Equal(t, 3, Padding(5, 8))
	assert.Equal(t, 0, Padding(7, 1))
}

func TestIntToUint64(t *testing.T) {
	got, err := IntToUint64(123)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), got)

	_, err = IntToUint64(-1)
	assert.Error(t, err)
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(123)
	require.NoError(t, err)
	assert.Equal(t, 123, got)

	_, err = Uint64ToInt(uint64(math.MaxInt) + 1)
	assert.Error(t, err)
}
