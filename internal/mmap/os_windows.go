//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osReserve(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil //nolint:gosec // unsafe is required for virtual memory
}

func osCommit(b []byte) error {
	_, err := windows.VirtualAlloc(addrOf(b), uintptr(len(b)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func osDecommit(b []byte) error {
	return windows.VirtualFree(addrOf(b), uintptr(len(b)), windows.MEM_DECOMMIT)
}

func osRelease(b []byte) error {
	// MEM_RELEASE requires the base address and a zero size.
	return windows.VirtualFree(addrOf(b), 0, windows.MEM_RELEASE)
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // unsafe is required for virtual memory
}
