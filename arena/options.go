package arena

import (
	"github.com/hupe1980/arenakit"
)

// DefaultMinBlockSize is the smallest block an arena creates (4 KiB).
const DefaultMinBlockSize = arenakit.DefaultMinBlockSize

// Option configures an Arena.
type Option func(*Arena)

// WithProvider binds the arena to a backing provider.
// If nil is passed, the heap provider is used.
func WithProvider(p Provider) Option {
	return func(a *Arena) {
		a.provider = p
	}
}

// WithMinBlockSize sets the smallest block the arena requests.
// Values <= 0 select DefaultMinBlockSize.
func WithMinBlockSize(n int) Option {
	return func(a *Arena) {
		a.minBlockSize = n
	}
}

// WithZeroOnFree wipes byte ranges reclaimed by scopes, ResetUsage and Free.
func WithZeroOnFree(enabled bool) Option {
	return func(a *Arena) {
		a.zeroOnFree = enabled
	}
}

// WithLibrary attaches the arena to a Library for logging, metrics and
// memory budgeting.
func WithLibrary(lib *arenakit.Library) Option {
	return func(a *Arena) {
		a.lib = lib
	}
}

// WithName sets the name used in logs.
func WithName(name string) Option {
	return func(a *Arena) {
		a.name = name
	}
}

// WithPanicOnOOM makes allocation failures fatal: the arena panics with the
// *AllocError instead of returning it.
func WithPanicOnOOM() Option {
	return func(a *Arena) {
		a.panicOnOOM = true
	}
}
