package arena

import (
	"fmt"
	"slices"
)

// Scope is a checkpoint of an Arena. Ending it undoes every allocation and
// block made since BeginScope, in time proportional to the blocks created
// after the checkpoint.
//
// Scopes nest and must end in LIFO order:
//
//	s := a.BeginScope()
//	defer s.End()
type Scope struct {
	arena    *Arena
	id       uint64
	curr     int
	top      int // index of the top block at BeginScope, -1 if none
	used     int // used of the curr block at BeginScope
	stats    Stats
	traceLen int
	ended    bool
}

// BeginScope captures the arena state.
func (a *Arena) BeginScope() Scope {
	a.scopeID++
	s := Scope{
		arena:    a,
		id:       a.scopeID,
		curr:     a.curr,
		top:      len(a.blocks) - 1,
		stats:    a.current,
		traceLen: len(a.trace),
	}
	if a.curr < len(a.blocks) {
		s.used = a.blocks[a.curr].used
	}
	a.scopes = append(a.scopes, s.id)
	return s
}

// Scoped runs fn inside a scope that ends when fn returns.
func (a *Arena) Scoped(fn func() error) error {
	s := a.BeginScope()
	defer s.End()
	return fn()
}

// End restores the arena to the state captured by BeginScope. Blocks created
// since then go back to the provider, usage of older blocks is rolled back.
//
// End on an already ended scope, or on a scope made stale by Free or
// ResetUsage, does nothing. Ending a scope while a scope begun after it is
// still open panics.
func (s *Scope) End() {
	a := s.arena
	if a == nil || s.ended {
		return
	}
	s.ended = true

	n := len(a.scopes)
	if n == 0 || a.scopes[n-1] != s.id {
		if slices.Contains(a.scopes, s.id) {
			panic(fmt.Sprintf("arena: scope %d ended while %d inner scope(s) are open", s.id, n-1-slices.Index(a.scopes, s.id)))
		}
		return
	}
	a.scopes = a.scopes[:n-1]
	a.unwind(s)
}

func (a *Arena) unwind(s *Scope) {
	freed, reclaimed := 0, 0

	for len(a.blocks)-1 > s.top {
		reclaimed += a.blocks[len(a.blocks)-1].used
		a.releaseTop()
		freed++
	}

	// Blocks after the snapshot's current block were empty at BeginScope.
	for i := len(a.blocks) - 1; i > s.curr; i-- {
		b := &a.blocks[i]
		reclaimed += b.used
		a.wipe(b.buf[:b.used])
		b.used = 0
	}

	if s.curr < len(a.blocks) {
		b := &a.blocks[s.curr]
		reclaimed += b.used - s.used
		a.wipe(b.buf[s.used:b.used])
		b.used = s.used
	}

	a.curr = s.curr
	a.current = s.stats
	if traceEnabled {
		a.trace = a.trace[:s.traceLen]
	}

	a.lib.ScopeEnded(a.Name(), freed, reclaimed)
}

// wipe clears reclaimed bytes when the arena zeroes on free, and fills them
// with the debug pattern in arenadebug builds.
func (a *Arena) wipe(b []byte) {
	if a.zeroOnFree {
		clear(b)
	} else if debugFill {
		fill(b)
	}
}
