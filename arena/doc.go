// Package arena implements a region allocator with transactional scopes.
//
// # Overview
//
// An Arena hands out byte ranges from a chain of blocks obtained from a
// Provider and frees them all at once. Blocks are appended on demand and
// never moved, so every slice returned by Alloc stays valid until the
// arena is freed or reset, or a scope that was open before the allocation
// ends.
//
//	a := arena.New()
//	defer a.Free()
//
//	buf, err := a.Alloc(256, 16, true)
//	p, err := arena.Alloc[Header](a)
//	xs, err := arena.MakeSlice[uint64](a, 1024)
//
// # Scopes
//
// BeginScope captures the chain position and usage counters; End undoes
// every allocation made since, handing back the blocks created inside the
// scope. Scopes nest and must end in LIFO order.
//
//	s := a.BeginScope()
//	tmp, _ := a.Alloc(4096, 8, false)
//	s.End() // tmp is gone, usage is back where it was
//
// # Backing Providers
//
//   - Heap: one make([]byte) per block
//   - Fixed: blocks carved from one caller-supplied buffer; fails when full
//   - Virtual: blocks committed inside one reserved range of virtual memory
//
// An arena is bound to one provider for its lifetime.
//
// # Memory Safety
//
// Arena memory is not scanned by the garbage collector. Only pointer-free
// types may be stored in it; the typed helpers enforce this and panic
// otherwise.
//
// # Build Tags
//
//   - arenatrace: records an AllocationContext for every allocation (see Here, Trace)
//   - arenadebug: fills uninitialized and reclaimed memory with DebugFillByte
//
// # Thread Safety
//
// Arena is not safe for concurrent use. Use one arena per goroutine and
// share a Library between them.
package arena
