package mmap

import (
	"sync/atomic"
	"unsafe"
)

// Reservation is a range of reserved address space.
// It owns the mapping and is responsible for releasing it.
type Reservation struct {
	data      []byte
	committed int // bytes currently committed, for accounting only
	closed    atomic.Bool
}

// Reserve claims size bytes of address space, rounded up to the page size.
// No physical memory is committed.
func Reserve(size int) (*Reservation, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	page := PageSize()
	if size > int(^uint(0)>>1)-page {
		return nil, ErrInvalidSize
	}
	size = (size + page - 1) &^ (page - 1)

	data, err := osReserve(size)
	if err != nil {
		return nil, err
	}
	return &Reservation{data: data}, nil
}

// Size returns the size of the reservation in bytes.
func (r *Reservation) Size() int {
	return len(r.data)
}

// Committed returns the number of bytes currently committed.
func (r *Reservation) Committed() int {
	return r.committed
}

// Commit makes [off, off+n) readable and writable and returns it.
// Both off and n must be multiples of PageSize.
func (r *Reservation) Commit(off, n int) ([]byte, error) {
	b, err := r.span(off, n)
	if err != nil {
		return nil, err
	}
	if err := osCommit(b); err != nil {
		return nil, err
	}
	r.committed += n
	return b[:n:n], nil
}

// Decommit returns the physical pages of [off, off+n) to the OS and makes the
// range inaccessible again. The address range stays reserved.
func (r *Reservation) Decommit(off, n int) error {
	b, err := r.span(off, n)
	if err != nil {
		return err
	}
	if err := osDecommit(b); err != nil {
		return err
	}
	r.committed -= n
	if r.committed < 0 {
		r.committed = 0
	}
	return nil
}

// OffsetOf returns the offset of b within the reservation, or false if b
// does not start inside it.
func (r *Reservation) OffsetOf(b []byte) (int, bool) {
	if len(b) == 0 || len(r.data) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.data))) //nolint:gosec // address arithmetic only
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))      //nolint:gosec // address arithmetic only
	if addr < base || addr-base >= uintptr(len(r.data)) {
		return 0, false
	}
	return int(addr - base), true
}

// Close releases the whole reservation. It is idempotent.
// Slices returned by Commit must not be touched afterwards.
func (r *Reservation) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	data := r.data
	r.data = nil
	r.committed = 0
	if data == nil {
		return nil
	}
	return osRelease(data)
}

func (r *Reservation) span(off, n int) ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if off < 0 || n <= 0 || off > len(r.data)-n {
		return nil, ErrOutOfBounds
	}
	mask := PageSize() - 1
	if off&mask != 0 || n&mask != 0 {
		return nil, ErrUnaligned
	}
	return r.data[off : off+n], nil
}
