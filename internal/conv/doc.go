// Package conv provides overflow-checked integer arithmetic and alignment
// helpers used by the arena allocator.
//
// Every size computation that feeds a block or slot-array allocation goes
// through these helpers so that a hostile or buggy size never wraps around
// into a small allocation.
//
// For arithmetic that is provably safe by domain constraints (e.g. loop
// indices, offsets already bounded by a slice length), use direct
// operations instead to avoid overhead.
package conv
