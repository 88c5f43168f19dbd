package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topAddr(a *Arena) uintptr {
	if len(a.blocks) == 0 {
		return 0
	}
	return addr(a.blocks[len(a.blocks)-1].buf)
}

func TestScope_RoundTrip(t *testing.T) {
	a := New(WithMinBlockSize(1024))
	defer a.Free()

	_, err := a.Alloc(700, 8, false)
	require.NoError(t, err)

	before := a.Stats()
	curr, top, blocks := a.curr, topAddr(a), a.NumBlocks()

	s := a.BeginScope()
	for i := 0; i < 20; i++ {
		_, err := a.Alloc(333, 16, false)
		require.NoError(t, err)
	}
	require.Greater(t, a.NumBlocks(), blocks)
	s.End()

	assert.Equal(t, before, a.Stats())
	assert.Equal(t, curr, a.curr)
	assert.Equal(t, top, topAddr(a))
	assert.Equal(t, blocks, a.NumBlocks())
	assert.Equal(t, 700, a.blocks[0].used)
}

func TestScope_Nested(t *testing.T) {
	a := New()
	defer a.Free()

	pre := a.NumBlocks()

	sa := a.BeginScope()
	_, err := a.Alloc(100, 8, false)
	require.NoError(t, err)

	sb := a.BeginScope()
	_, err = a.Alloc(4096, 8, false)
	require.NoError(t, err)
	require.Equal(t, 2, a.NumBlocks(), "4096 bytes force a new block")

	sb.End()
	assert.Equal(t, 1, a.NumBlocks())
	assert.Equal(t, 100, a.Stats().BytesUsed)

	sa.End()
	assert.Equal(t, 0, a.Stats().BytesUsed)
	assert.Equal(t, pre, a.NumBlocks())
}

func TestScope_RollsBackPreexistingBlocks(t *testing.T) {
	a := New(WithMinBlockSize(1024))
	defer a.Free()

	// Two blocks, current back on the first one.
	_, err := a.Alloc(1000, 1, false)
	require.NoError(t, err)
	_, err = a.Alloc(1000, 1, false)
	require.NoError(t, err)
	a.ResetUsage(false)
	_, err = a.Alloc(200, 1, false)
	require.NoError(t, err)
	require.Equal(t, 0, a.curr)

	s := a.BeginScope()
	_, err = a.Alloc(900, 1, false) // spills into the second, pre-existing block
	require.NoError(t, err)
	require.Equal(t, 1, a.curr)
	s.End()

	assert.Equal(t, 2, a.NumBlocks(), "pre-existing blocks are kept")
	assert.Equal(t, 0, a.curr)
	assert.Equal(t, 200, a.blocks[0].used)
	assert.Equal(t, 0, a.blocks[1].used)
	assert.Equal(t, 200, a.Stats().BytesUsed)
}

func TestScope_EmptyIsNoop(t *testing.T) {
	a := New()
	defer a.Free()

	_, err := a.Alloc(64, 8, false)
	require.NoError(t, err)
	before := a.Stats()

	s := a.BeginScope()
	s.End()
	assert.Equal(t, before, a.Stats())
	assert.Equal(t, 1, a.NumBlocks())
}

func TestScope_EndTwice(t *testing.T) {
	a := New()
	defer a.Free()

	s := a.BeginScope()
	_, err := a.Alloc(64, 8, false)
	require.NoError(t, err)
	s.End()

	_, err = a.Alloc(32, 8, false)
	require.NoError(t, err)
	s.End()
	assert.Equal(t, 32, a.Stats().BytesUsed, "second End does nothing")
}

func TestScope_OutOfOrder(t *testing.T) {
	a := New()
	defer a.Free()

	outer := a.BeginScope()
	inner := a.BeginScope()
	assert.Panics(t, outer.End)

	inner.End()
}

func TestScope_StaleAfterFree(t *testing.T) {
	a := New()

	s := a.BeginScope()
	_, err := a.Alloc(64, 8, false)
	require.NoError(t, err)
	a.Free()

	_, err = a.Alloc(16, 8, false)
	require.NoError(t, err)
	s.End()
	assert.Equal(t, 16, a.Stats().BytesUsed)
	assert.Equal(t, 1, a.NumBlocks())
	a.Free()
}

func TestScope_StaleAfterReset(t *testing.T) {
	a := New()
	defer a.Free()

	_, err := a.Alloc(64, 8, false)
	require.NoError(t, err)
	s := a.BeginScope()
	a.ResetUsage(false)
	_, err = a.Alloc(8, 8, false)
	require.NoError(t, err)

	s.End()
	assert.Equal(t, 8, a.Stats().BytesUsed)
}

func TestScope_ZeroOnFree(t *testing.T) {
	a := New(WithZeroOnFree(true))
	defer a.Free()

	s := a.BeginScope()
	b, err := a.Alloc(256, 8, false)
	require.NoError(t, err)
	for i := range b {
		b[i] = 0x5A
	}
	s.End()

	for i, v := range b {
		require.Zero(t, v, "byte %d", i)
	}
}

func TestArena_Scoped(t *testing.T) {
	a := New()
	defer a.Free()

	errBoom := errors.New("boom")
	err := a.Scoped(func() error {
		_, err := a.Alloc(512, 8, false)
		require.NoError(t, err)
		assert.Equal(t, 512, a.Stats().BytesUsed)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, a.Stats().BytesUsed)
	assert.Equal(t, 0, a.NumBlocks())
}
