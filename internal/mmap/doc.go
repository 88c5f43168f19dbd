// Package mmap manages reserved ranges of OS virtual memory.
//
// # Overview
//
// A Reservation claims a contiguous range of address space without backing
// it with physical memory. Page-aligned sub-ranges are then committed
// (made readable and writable) on demand and decommitted again when no
// longer needed. This is what lets an arena grow inside one stable address
// range instead of asking the Go heap for every block.
//
// # Usage
//
//	r, err := mmap.Reserve(64 << 20)
//	if err != nil { ... }
//	defer r.Close()
//
//	buf, err := r.Commit(0, mmap.PageSize())
//	// ... use buf ...
//	_ = r.Decommit(0, mmap.PageSize())
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with PROT_NONE, mprotect(2) to commit,
//     madvise(2) MADV_DONTNEED plus PROT_NONE to decommit
//   - Windows: VirtualAlloc with MEM_RESERVE / MEM_COMMIT, VirtualFree with
//     MEM_DECOMMIT / MEM_RELEASE
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Commit and Decommit
// are not synchronized; a Reservation has a single owner.
package mmap
