package mmap

import (
	"errors"
	"os"
)

var (
	// ErrClosed is returned when attempting to use a released reservation.
	ErrClosed = errors.New("mmap: reservation is closed")
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a range lies outside the reservation.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrUnaligned is returned when a range is not page aligned.
	ErrUnaligned = errors.New("mmap: range not page aligned")
)

// PageSize returns the granularity of Commit and Decommit.
func PageSize() int {
	return os.Getpagesize()
}
