package arena

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/hupe1980/arenakit"
	"github.com/hupe1980/arenakit/internal/conv"
	"github.com/hupe1980/arenakit/internal/mmap"
)

// MaxHeapBlock caps a single heap block. The Go runtime aborts the process
// on an unsatisfiable make, so oversized requests are refused up front.
const MaxHeapBlock = 1 << 40

// ProviderKind identifies a backing store.
type ProviderKind int

const (
	// KindHeap allocates each block from the Go heap.
	KindHeap ProviderKind = iota
	// KindFixed carves blocks out of one caller-supplied buffer.
	KindFixed
	// KindVirtual commits blocks inside a reserved range of virtual memory.
	KindVirtual
	// KindCustom is reported by providers outside this package.
	KindCustom
)

func (k ProviderKind) String() string {
	switch k {
	case KindHeap:
		return arenakit.ProviderHeap
	case KindFixed:
		return arenakit.ProviderFixed
	case KindVirtual:
		return arenakit.ProviderVirtual
	default:
		return "custom"
	}
}

// Provider supplies raw byte buffers for arena blocks and reclaims them.
//
// Alloc may return a buffer larger than requested (e.g. page rounded); the
// arena uses the full length. Release receives exactly the slices Alloc
// returned. Arenas release blocks in LIFO order.
type Provider interface {
	Kind() ProviderKind
	Alloc(size int) ([]byte, error)
	Release(buf []byte)
}

// ProviderFromConfig builds the provider named by cfg.Provider.
func ProviderFromConfig(cfg arenakit.ArenaConfig) (Provider, error) {
	switch cfg.Provider {
	case "", arenakit.ProviderHeap:
		return Heap(), nil
	case arenakit.ProviderFixed:
		if cfg.FixedSize <= 0 {
			return nil, fmt.Errorf("%w: fixed_size must be positive", arenakit.ErrInvalidConfig)
		}
		size, err := cfg.FixedSize.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: fixed_size: %w", arenakit.ErrInvalidConfig, err)
		}
		return NewFixed(make([]byte, size)), nil
	case arenakit.ProviderVirtual:
		if cfg.VirtualReserve <= 0 {
			return nil, fmt.Errorf("%w: virtual_reserve must be positive", arenakit.ErrInvalidConfig)
		}
		reserve, err := cfg.VirtualReserve.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: virtual_reserve: %w", arenakit.ErrInvalidConfig, err)
		}
		return NewVirtual(reserve), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", arenakit.ErrInvalidConfig, cfg.Provider)
	}
}

type heapProvider struct{}

// Heap returns the provider that allocates every block with make.
// Released blocks are left to the garbage collector.
func Heap() Provider {
	return heapProvider{}
}

func (heapProvider) Kind() ProviderKind { return KindHeap }

func (heapProvider) Alloc(size int) ([]byte, error) {
	if size <= 0 || size > MaxHeapBlock {
		return nil, fmt.Errorf("%w: heap block of %d bytes", ErrOutOfMemory, size)
	}
	return make([]byte, size), nil
}

func (heapProvider) Release([]byte) {}

// span is a released range that is not yet at the tail.
type span struct {
	start, end int
}

// carver hands out consecutive ranges of [0, limit) and takes them back.
// Releasing the tail range rolls the offset back, together with any
// earlier released ranges that become the new tail.
type carver struct {
	limit int
	off   int
	holes []span // sorted by start
}

func (c *carver) take(size int) (int, bool) {
	if size <= 0 || size > c.limit-c.off {
		return 0, false
	}
	start := c.off
	c.off += size
	return start, true
}

func (c *carver) give(start, size int) {
	end := start + size
	if end != c.off {
		i, _ := slices.BinarySearchFunc(c.holes, start, func(s span, v int) int { return s.start - v })
		c.holes = slices.Insert(c.holes, i, span{start, end})
		return
	}
	c.off = start
	for n := len(c.holes); n > 0 && c.holes[n-1].end == c.off; n-- {
		c.off = c.holes[n-1].start
		c.holes = c.holes[:n-1]
	}
}

func (c *carver) remaining() int {
	return c.limit - c.off
}

func (c *carver) reset() {
	c.off = 0
	c.holes = c.holes[:0]
}

// Fixed carves blocks out of a single caller-supplied buffer. It never
// grows: Alloc fails with ErrOutOfMemory once the buffer is exhausted.
type Fixed struct {
	buf []byte
	c   carver
}

// NewFixed returns a provider over buf. The caller must not use buf
// while arenas built on the provider are alive.
func NewFixed(buf []byte) *Fixed {
	return &Fixed{buf: buf, c: carver{limit: len(buf)}}
}

// Kind implements Provider.
func (f *Fixed) Kind() ProviderKind { return KindFixed }

// Alloc implements Provider.
func (f *Fixed) Alloc(size int) ([]byte, error) {
	start, ok := f.c.take(size)
	if !ok {
		return nil, fmt.Errorf("%w: fixed buffer has %d of %d bytes left, need %d",
			ErrOutOfMemory, f.c.remaining(), len(f.buf), size)
	}
	return f.buf[start : start+size : start+size], nil
}

// Release implements Provider.
func (f *Fixed) Release(buf []byte) {
	if len(buf) == 0 || len(f.buf) == 0 {
		return
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(f.buf))) //nolint:gosec // address arithmetic only
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))   //nolint:gosec // address arithmetic only
	if addr < base || addr-base >= uintptr(len(f.buf)) {
		return
	}
	f.c.give(int(addr-base), len(buf))
}

// Remaining returns the bytes not handed out.
func (f *Fixed) Remaining() int {
	return f.c.remaining()
}

// Size returns the size of the underlying buffer.
func (f *Fixed) Size() int {
	return len(f.buf)
}

// Virtual commits blocks inside one reservation of virtual memory.
// The address range is reserved on first use; each block commits a
// page-rounded range and released blocks are decommitted immediately.
// Alloc fails with ErrOutOfMemory once the reservation is exhausted.
type Virtual struct {
	reserve int
	res     *mmap.Reservation
	c       carver
}

// NewVirtual returns a provider that reserves reserve bytes of address space.
func NewVirtual(reserve int) *Virtual {
	return &Virtual{reserve: reserve}
}

// Kind implements Provider.
func (v *Virtual) Kind() ProviderKind { return KindVirtual }

// Alloc implements Provider.
func (v *Virtual) Alloc(size int) ([]byte, error) {
	if v.res == nil {
		res, err := mmap.Reserve(v.reserve)
		if err != nil {
			return nil, fmt.Errorf("%w: reserve %d bytes: %w", ErrOutOfMemory, v.reserve, err)
		}
		v.res = res
		v.c = carver{limit: res.Size()}
	}

	n, err := conv.AlignUp(size, mmap.PageSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	start, ok := v.c.take(n)
	if !ok {
		return nil, fmt.Errorf("%w: virtual reservation has %d of %d bytes left, need %d",
			ErrOutOfMemory, v.c.remaining(), v.res.Size(), n)
	}
	buf, err := v.res.Commit(start, n)
	if err != nil {
		v.c.give(start, n)
		return nil, fmt.Errorf("%w: commit: %w", ErrOutOfMemory, err)
	}
	return buf, nil
}

// Release implements Provider.
func (v *Virtual) Release(buf []byte) {
	if v.res == nil {
		return
	}
	off, ok := v.res.OffsetOf(buf)
	if !ok {
		return
	}
	// A range that could not be decommitted is not handed out again.
	if err := v.res.Decommit(off, len(buf)); err != nil {
		return
	}
	v.c.give(off, len(buf))
}

// Remaining returns the bytes of the reservation not handed out. Before
// first use it is the requested reservation size.
func (v *Virtual) Remaining() int {
	if v.res == nil {
		return v.reserve
	}
	return v.c.remaining()
}

// Committed returns the bytes currently committed.
func (v *Virtual) Committed() int {
	if v.res == nil {
		return 0
	}
	return v.res.Committed()
}

// Reserved returns the size of the reservation (0 before first use).
func (v *Virtual) Reserved() int {
	if v.res == nil {
		return 0
	}
	return v.res.Size()
}

// Close releases the reservation. Blocks still held by arenas become invalid.
// The provider may be used again afterwards; it reserves a fresh range.
func (v *Virtual) Close() error {
	if v.res == nil {
		return nil
	}
	err := v.res.Close()
	v.res = nil
	v.c.reset()
	return err
}
