package arena

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned when the backing provider or the library
// memory budget cannot supply a block, or a requested size overflows.
var ErrOutOfMemory = errors.New("arena: out of memory")

// AllocError describes a failed allocation.
//
// errors.Is(err, ErrOutOfMemory) holds for every AllocError; the provider
// or budget error that caused it can be accessed via errors.Unwrap.
type AllocError struct {
	// Requested is the byte count asked for. It saturates at math.MaxInt
	// when the size computation overflowed.
	Requested int
	Align     int
	Provider  ProviderKind
	cause     error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("arena: out of memory allocating %d bytes (align %d) from %s provider: %v",
		e.Requested, e.Align, e.Provider, e.cause)
}

func (e *AllocError) Unwrap() error { return e.cause }

// Is reports ErrOutOfMemory as matching.
func (e *AllocError) Is(target error) bool { return target == ErrOutOfMemory }
