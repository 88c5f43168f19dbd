package arena

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/hupe1980/arenakit"
	"github.com/hupe1980/arenakit/internal/conv"
)

// block is one contiguous buffer of the chain. Its neighbours are the
// previous and next entries of Arena.blocks.
type block struct {
	buf  []byte
	used int
}

// Arena is a bump allocator over a chain of blocks obtained from a Provider.
//
// The zero value is ready to use and lazily heap-backed. An Arena is not
// safe for concurrent use; give each goroutine its own arena.
type Arena struct {
	provider     Provider
	lib          *arenakit.Library
	name         string
	minBlockSize int
	zeroOnFree   bool
	panicOnOOM   bool

	// blocks is the chain in creation order; the top block is the last entry.
	// Slices handed out point into block buffers, which never move.
	blocks []block
	curr   int // block receiving allocations; every later block has used == 0

	current Stats
	highest Stats

	scopes  []uint64 // ids of open scopes, innermost last
	scopeID uint64

	trace []TraceRecord
}

// New creates an Arena. No memory is requested until the first allocation.
func New(opts ...Option) *Arena {
	a := &Arena{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig creates an Arena from its configuration section.
// Options are applied after the configuration and take precedence.
func NewFromConfig(cfg arenakit.ArenaConfig, opts ...Option) (*Arena, error) {
	p, err := ProviderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	minBlock, err := cfg.MinBlockSize.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: min_block_size: %w", arenakit.ErrInvalidConfig, err)
	}
	base := []Option{
		WithProvider(p),
		WithMinBlockSize(minBlock),
		WithZeroOnFree(cfg.ZeroOnFree),
	}
	return New(append(base, opts...)...), nil
}

// Alloc returns size bytes whose address is a multiple of align.
//
// The bytes are zeroed when zero is set and left as-is otherwise. The slice
// stays valid until the arena is freed, reset, or a scope that was open
// before the allocation ends. align must be a power of two. A size of 0
// returns nil. Failures wrap ErrOutOfMemory.
func (a *Arena) Alloc(size, align int, zero bool) ([]byte, error) {
	return a.alloc(AllocationContext{}, size, align, zero)
}

// AllocContext is Alloc with an allocation context that is recorded in the
// arena trace when built with the arenatrace tag.
func (a *Arena) AllocContext(ctx AllocationContext, size, align int, zero bool) ([]byte, error) {
	return a.alloc(ctx, size, align, zero)
}

func (a *Arena) alloc(ctx AllocationContext, size, align int, zero bool) ([]byte, error) {
	if size < 0 {
		panic(fmt.Sprintf("arena: negative allocation size %d", size))
	}
	if !conv.IsPowerOfTwo(align) {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if size == 0 {
		return nil, nil
	}

	for i := a.curr; i < len(a.blocks); i++ {
		if pad, ok := a.blocks[i].fit(size, align); ok {
			a.curr = i
			return a.bump(ctx, i, pad, size, zero), nil
		}
	}

	need, err := conv.AddInt(size, align-1)
	if err != nil {
		return nil, a.outOfMemory(size, align, err)
	}
	if err := a.growFor(need, true); err != nil {
		return nil, a.outOfMemory(size, align, err)
	}

	i := len(a.blocks) - 1
	pad, _ := a.blocks[i].fit(size, align)
	return a.bump(ctx, i, pad, size, zero), nil
}

// fit returns the alignment padding needed to place size bytes in b, and
// whether they fit.
func (b *block) fit(size, align int) (int, bool) {
	free := len(b.buf) - b.used
	if free <= 0 {
		return 0, false
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b.buf))) + uintptr(b.used) //nolint:gosec // address arithmetic only
	pad := conv.Padding(addr, align)
	if pad > free || size > free-pad {
		return 0, false
	}
	return pad, true
}

func (a *Arena) bump(ctx AllocationContext, i, pad, size int, zero bool) []byte {
	b := &a.blocks[i]
	start := b.used + pad
	b.used = start + size
	out := b.buf[start : start+size : start+size]

	if zero {
		clear(out)
	} else if debugFill {
		fill(out)
	}

	a.current.BytesUsed += size
	a.current.BytesWasted += pad
	a.current.Allocs++
	a.highest.raise(a.current)

	if traceEnabled {
		a.trace = append(a.trace, TraceRecord{Context: ctx, Block: i, Offset: start, Size: size})
	}
	a.lib.Alloc(size, pad)
	return out
}

// Reserve makes sure at least size bytes are free in the current block or a
// later one, appending a block if necessary. It does not allocate.
func (a *Arena) Reserve(size int) error {
	if size < 0 {
		panic(fmt.Sprintf("arena: negative reserve size %d", size))
	}
	if size == 0 {
		return nil
	}
	for i := a.curr; i < len(a.blocks); i++ {
		if len(a.blocks[i].buf)-a.blocks[i].used >= size {
			return nil
		}
	}
	if err := a.growFor(size, false); err != nil {
		return a.outOfMemory(size, 1, err)
	}
	return nil
}

// growFor appends a block that can hold need bytes. It asks for the
// minimum block size first. If the provider cannot supply that, it settles
// for what the provider has left, and finally for exactly need bytes.
func (a *Arena) growFor(need int, adopt bool) error {
	preferred := max(need, a.blockSize())
	err := a.grow(preferred, adopt)
	if err == nil || preferred == need {
		return err
	}
	if r, ok := a.backing().(interface{ Remaining() int }); ok {
		if left := r.Remaining(); left > need && left < preferred {
			if a.grow(left, adopt) == nil {
				return nil
			}
		}
	}
	return a.grow(need, adopt)
}

// grow appends a block of at least size bytes. adopt makes it the current
// block.
func (a *Arena) grow(size int, adopt bool) error {
	p := a.backing()
	buf, err := p.Alloc(size)
	if err != nil {
		return err
	}
	if err := a.lib.AcquireBlock(len(buf)); err != nil {
		p.Release(buf)
		return err
	}

	a.blocks = append(a.blocks, block{buf: buf})
	if adopt || len(a.blocks) == 1 {
		a.curr = len(a.blocks) - 1
	}
	a.current.BytesAllocated += len(buf)
	a.current.BlockCount++
	a.highest.raise(a.current)

	a.lib.BlockAcquired(a.Name(), p.Kind().String(), len(buf), len(a.blocks))
	return nil
}

// releaseTop detaches the top block and hands it back to the provider.
func (a *Arena) releaseTop() {
	i := len(a.blocks) - 1
	b := a.blocks[i]
	if a.zeroOnFree {
		clear(b.buf[:b.used])
	}
	a.blocks[i] = block{}
	a.blocks = a.blocks[:i]
	if a.curr > 0 && a.curr >= len(a.blocks) {
		a.curr = len(a.blocks) - 1
	}

	a.backing().Release(b.buf)
	a.current.BytesAllocated -= len(b.buf)
	a.current.BlockCount--

	a.lib.BlockReleased(a.Name(), a.backing().Kind().String(), len(b.buf), len(a.blocks))
}

func (a *Arena) outOfMemory(size, align int, cause error) error {
	err := &AllocError{Requested: size, Align: align, Provider: a.backing().Kind(), cause: cause}
	a.lib.OutOfMemory(a.Name(), err.Provider.String(), size, err)
	if a.panicOnOOM {
		panic(err)
	}
	return err
}

// ResetUsage marks every block empty and makes the first block current.
// Blocks are kept for reuse. The used ranges are wiped when zero is set or
// the arena was created with WithZeroOnFree. High-water statistics are
// preserved. Open scopes become stale.
func (a *Arena) ResetUsage(zero bool) {
	for i := len(a.blocks) - 1; i >= 0; i-- {
		b := &a.blocks[i]
		used := b.buf[:b.used]
		if zero || a.zeroOnFree {
			clear(used)
		} else if debugFill {
			fill(used)
		}
		b.used = 0
	}
	a.curr = 0
	a.current.BytesUsed = 0
	a.current.BytesWasted = 0
	a.current.Allocs = 0
	a.scopes = a.scopes[:0]
	a.trace = a.trace[:0]
}

// Free releases every block to the provider and leaves the arena empty and
// reusable. The provider binding and high-water statistics are preserved.
// Open scopes become stale.
func (a *Arena) Free() {
	for len(a.blocks) > 0 {
		a.releaseTop()
	}
	a.blocks = nil
	a.curr = 0
	a.current = Stats{}
	a.scopes = a.scopes[:0]
	a.trace = nil
}

// Close frees the arena and closes its provider if it implements io.Closer.
// Do not Close an arena whose provider is shared with other live arenas.
func (a *Arena) Close() error {
	a.Free()
	if c, ok := a.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Stats returns the current usage statistics.
func (a *Arena) Stats() Stats {
	return a.current
}

// HighWater returns the highest value each statistic has reached.
func (a *Arena) HighWater() Stats {
	return a.highest
}

// NumBlocks returns the number of blocks currently held.
func (a *Arena) NumBlocks() int {
	return len(a.blocks)
}

// Provider returns the backing provider.
func (a *Arena) Provider() Provider {
	return a.backing()
}

// Name returns the name used in logs.
func (a *Arena) Name() string {
	if a.name == "" {
		return "arena"
	}
	return a.name
}

func (a *Arena) backing() Provider {
	if a.provider == nil {
		a.provider = Heap()
	}
	return a.provider
}

func (a *Arena) blockSize() int {
	if a.minBlockSize <= 0 {
		return DefaultMinBlockSize
	}
	return a.minBlockSize
}

func (a *Arena) String() string {
	return fmt.Sprintf("Arena{name: %s, provider: %s, %s, curr: %d, high-water used: %d}",
		a.Name(), a.backing().Kind(), a.current, a.curr, a.highest.BytesUsed)
}
