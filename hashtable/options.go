package hashtable

import (
	"fmt"

	"github.com/hupe1980/arenakit"
	"github.com/hupe1980/arenakit/arena"
	"github.com/hupe1980/arenakit/internal/conv"
)

// DefaultInitialSize is the slot count of a table created without
// WithInitialSize.
const DefaultInitialSize = arenakit.DefaultInitialTableSize

type options struct {
	initialSize int
	arenaOpts   []arena.Option
	lib         *arenakit.Library
}

// Option configures a Table.
type Option func(*options)

// WithInitialSize sets the slot count allocated on first insert.
// It panics unless size is a power of two greater than zero.
func WithInitialSize(size int) Option {
	if !conv.IsPowerOfTwo(size) {
		panic(fmt.Sprintf("hashtable: initial size %d is not a power of two", size))
	}
	return func(o *options) {
		o.initialSize = size
	}
}

// WithArenaOptions sets the options of the arenas that hold the slots,
// e.g. a provider or zero-on-free.
func WithArenaOptions(opts ...arena.Option) Option {
	return func(o *options) {
		o.arenaOpts = append(o.arenaOpts, opts...)
	}
}

// WithLibrary attaches the table and its arenas to a Library.
func WithLibrary(lib *arenakit.Library) Option {
	return func(o *options) {
		o.lib = lib
	}
}

// WithConfig applies a table configuration section.
// A zero InitialSize keeps the default.
func WithConfig(cfg arenakit.TableConfig) Option {
	if cfg.InitialSize == 0 {
		return func(*options) {}
	}
	return WithInitialSize(cfg.InitialSize)
}
