package hashtable

import (
	"fmt"
	"iter"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/arenakit/arena"
	"github.com/hupe1980/arenakit/internal/conv"
)

// Maximum load factor, as a fraction: an insert that would bring
// count/size to 0.70 or above doubles the table first.
const (
	maxLoadNum = 7
	maxLoadDen = 10
)

type entry[T any] struct {
	hash     uint64
	occupied bool
	value    T
}

// Table is an open-addressing hash table keyed by 64-bit hashes.
//
// Invariant: every occupied slot is reachable by linear probing from
// hash & (size-1) without crossing an empty slot.
//
// The zero value is an empty table with default options.
type Table[T any] struct {
	opts  options
	arena *arena.Arena
	slots []entry[T] // len is a power of two, or 0 before the first insert
	count int
}

// New creates an empty table. No memory is allocated until the first insert.
func New[T any](opts ...Option) *Table[T] {
	t := &Table[T]{}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t
}

// FindOrAdd returns the value stored under hash. found reports whether the
// hash was present. If it was not and findOnly is false, a zeroed value is
// added and returned; with findOnly the result is nil.
//
// Adding may grow the table, which invalidates earlier pointers. If growth
// fails the error wraps arena.ErrOutOfMemory and the table is unchanged.
func (t *Table[T]) FindOrAdd(hash uint64, findOnly bool) (value *T, found bool, err error) {
	if len(t.slots) > 0 {
		if i, ok := t.probe(hash); ok {
			return &t.slots[i].value, true, nil
		}
	}
	if findOnly {
		return nil, false, nil
	}

	size := len(t.slots)
	if size == 0 {
		size = t.initialSize()
	}
	if (t.count+1)*maxLoadDen >= size*maxLoadNum {
		// Smallest power of two that keeps the load below the maximum.
		if size, err = conv.NextPowerOfTwo((t.count+1)*maxLoadDen/maxLoadNum + 1); err != nil {
			return nil, false, fmt.Errorf("hashtable: grow: %w: %w", arena.ErrOutOfMemory, err)
		}
	}
	if size != len(t.slots) {
		if err := t.rehash(size); err != nil {
			return nil, false, err
		}
	}

	i, _ := t.probe(hash)
	e := &t.slots[i]
	var zero T
	e.hash, e.occupied, e.value = hash, true, zero
	t.count++
	return &e.value, false, nil
}

// Insert stores value under hash, replacing any previous value, and returns
// a pointer to the stored copy.
func (t *Table[T]) Insert(hash uint64, value T) (*T, error) {
	p, _, err := t.FindOrAdd(hash, false)
	if err != nil {
		return nil, err
	}
	*p = value
	return p, nil
}

// Get returns the value stored under hash.
func (t *Table[T]) Get(hash uint64) (*T, bool) {
	p, ok, _ := t.FindOrAdd(hash, true)
	return p, ok
}

// Contains reports whether hash is present.
func (t *Table[T]) Contains(hash uint64) bool {
	_, ok := t.Get(hash)
	return ok
}

// Remove deletes hash and reports whether it was present. Later entries of
// the probe run are shifted back into the gap. With zero the vacated slot
// is wiped; otherwise only its occupied mark is cleared.
func (t *Table[T]) Remove(hash uint64, zero bool) bool {
	if t.count == 0 {
		return false
	}
	i, ok := t.probe(hash)
	if !ok {
		return false
	}

	mask := uint64(len(t.slots) - 1)
	for j := (i + 1) & mask; t.slots[j].occupied; j = (j + 1) & mask {
		// The entry at j stays reachable across the gap at i only if its
		// ideal slot lies in (i, j].
		if between(i, t.slots[j].hash&mask, j) {
			continue
		}
		t.slots[i] = t.slots[j]
		i = j
	}

	if zero {
		t.slots[i] = entry[T]{}
	} else {
		t.slots[i].occupied = false
	}
	t.count--
	return true
}

// between reports whether k lies in the cyclic interval (i, j].
func between(i, k, j uint64) bool {
	if i <= j {
		return i < k && k <= j
	}
	return i < k || k <= j
}

// probe walks the probe sequence of hash. It returns the slot holding hash
// and true, or the first empty slot and false. The table must be allocated.
func (t *Table[T]) probe(hash uint64) (uint64, bool) {
	mask := uint64(len(t.slots) - 1)
	for i := hash & mask; ; i = (i + 1) & mask {
		e := &t.slots[i]
		if !e.occupied {
			return i, false
		}
		if e.hash == hash {
			return i, true
		}
	}
}

// rehash moves every entry into a new slot array of size slots held by a
// fresh arena. The old arena is freed only after the move succeeded.
func (t *Table[T]) rehash(size int) error {
	start := time.Now()
	oldSize := len(t.slots)

	a := arena.New(t.arenaOptions()...)
	slots, err := arena.MakeSlice[entry[T]](a, size)
	if err != nil {
		a.Free()
		err = fmt.Errorf("hashtable: allocate %d slots: %w", size, err)
		if oldSize > 0 {
			t.opts.lib.TableGrew(oldSize, size, t.count, time.Since(start), err)
		}
		return err
	}

	mask := uint64(size - 1)
	for i := range t.slots {
		e := &t.slots[i]
		if !e.occupied {
			continue
		}
		j := e.hash & mask
		for slots[j].occupied {
			j = (j + 1) & mask
		}
		slots[j] = *e
	}

	old := t.arena
	t.arena, t.slots = a, slots
	if old != nil {
		old.Free()
	}
	if oldSize > 0 {
		t.opts.lib.TableGrew(oldSize, size, t.count, time.Since(start), nil)
	}
	return nil
}

func (t *Table[T]) arenaOptions() []arena.Option {
	opts := make([]arena.Option, 0, len(t.opts.arenaOpts)+2)
	opts = append(opts, arena.WithName("hashtable"))
	opts = append(opts, t.opts.arenaOpts...)
	if t.opts.lib != nil {
		opts = append(opts, arena.WithLibrary(t.opts.lib))
	}
	return opts
}

func (t *Table[T]) initialSize() int {
	if t.opts.initialSize == 0 {
		return DefaultInitialSize
	}
	return t.opts.initialSize
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return t.count
}

// Cap returns the number of slots (0 before the first insert).
func (t *Table[T]) Cap() int {
	return len(t.slots)
}

// LoadFactor returns Len/Cap, or 0 for an unallocated table.
func (t *Table[T]) LoadFactor() float64 {
	if len(t.slots) == 0 {
		return 0
	}
	return float64(t.count) / float64(len(t.slots))
}

// All yields every hash and a pointer to its value in slot order.
// The table must not be modified during iteration.
func (t *Table[T]) All() iter.Seq2[uint64, *T] {
	return func(yield func(uint64, *T) bool) {
		for i := range t.slots {
			e := &t.slots[i]
			if e.occupied && !yield(e.hash, &e.value) {
				return
			}
		}
	}
}

// Occupancy returns a bitmap of the occupied slot indices.
func (t *Table[T]) Occupancy() *roaring.Bitmap {
	bm := roaring.New()
	for i := range t.slots {
		if t.slots[i].occupied {
			bm.AddInt(i)
		}
	}
	return bm
}

// ProbeDistance returns how many slots past its ideal slot hash is stored,
// or -1 if hash is absent.
func (t *Table[T]) ProbeDistance(hash uint64) int {
	if len(t.slots) == 0 {
		return -1
	}
	i, ok := t.probe(hash)
	if !ok {
		return -1
	}
	mask := uint64(len(t.slots) - 1)
	d, err := conv.Uint64ToInt((i - hash&mask) & mask)
	if err != nil {
		return -1
	}
	return d
}

// Clear removes every entry but keeps the slot array. With zero the slots
// are wiped.
func (t *Table[T]) Clear(zero bool) {
	if zero {
		clear(t.slots)
	} else {
		for i := range t.slots {
			t.slots[i].occupied = false
		}
	}
	t.count = 0
}

// Free releases the slot array. The table can be reused and allocates
// again on the next insert.
func (t *Table[T]) Free() {
	if t.arena != nil {
		t.arena.Free()
	}
	t.arena = nil
	t.slots = nil
	t.count = 0
}

// ArenaStats returns the usage statistics of the arena holding the slots.
func (t *Table[T]) ArenaStats() arena.Stats {
	if t.arena == nil {
		return arena.Stats{}
	}
	return t.arena.Stats()
}

func (t *Table[T]) String() string {
	return fmt.Sprintf("Table{len: %d, cap: %d, load: %.2f}", t.count, len(t.slots), t.LoadFactor())
}
