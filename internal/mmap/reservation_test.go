package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve_CommitDecommit(t *testing.T) {
	page := PageSize()

	r, err := Reserve(4*page + 1)
	require.NoError(t, err)
	defer r.Close()

	// Rounded up to whole pages
	assert.Equal(t, 5*page, r.Size())
	assert.Equal(t, 0, r.Committed())

	buf, err := r.Commit(page, 2*page)
	require.NoError(t, err)
	assert.Len(t, buf, 2*page)
	assert.Equal(t, 2*page, r.Committed())

	// Fresh anonymous pages read as zero and are writable
	assert.Equal(t, byte(0), buf[0])
	buf[0] = 0xAB
	buf[len(buf)-1] = 0xCD
	assert.Equal(t, byte(0xAB), buf[0])

	require.NoError(t, r.Decommit(page, 2*page))
	assert.Equal(t, 0, r.Committed())

	// Recommit works after decommit
	buf, err = r.Commit(page, page)
	require.NoError(t, err)
	buf[10] = 1
	assert.Equal(t, byte(1), buf[10])
}

func TestReserve_Errors(t *testing.T) {
	_, err := Reserve(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Reserve(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	page := PageSize()
	r, err := Reserve(2 * page)
	require.NoError(t, err)

	_, err = r.Commit(0, 3*page)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = r.Commit(-page, page)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = r.Commit(1, page)
	assert.ErrorIs(t, err, ErrUnaligned)

	_, err = r.Commit(0, page+1)
	assert.ErrorIs(t, err, ErrUnaligned)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "close is idempotent")

	_, err = r.Commit(0, page)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Decommit(0, page), ErrClosed)
}

func TestReservation_OffsetOf(t *testing.T) {
	page := PageSize()
	r, err := Reserve(4 * page)
	require.NoError(t, err)
	defer r.Close()

	buf, err := r.Commit(2*page, page)
	require.NoError(t, err)

	off, ok := r.OffsetOf(buf)
	require.True(t, ok)
	assert.Equal(t, 2*page, off)

	_, ok = r.OffsetOf(make([]byte, 8))
	assert.False(t, ok)

	_, ok = r.OffsetOf(nil)
	assert.False(t, ok)
}
