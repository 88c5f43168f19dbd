//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

func osReserve(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func osCommit(b []byte) error {
	return unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE)
}

func osDecommit(b []byte) error {
	// MADV_DONTNEED drops the pages; the next commit sees zero-filled memory
	// on Linux. Other kernels may keep contents, callers must not rely on it.
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil && err != unix.EINVAL {
		return err
	}
	return unix.Mprotect(b, unix.PROT_NONE)
}

func osRelease(b []byte) error {
	return unix.Munmap(b)
}
