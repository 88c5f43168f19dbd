package arena

import "slices"

// DebugFillByte is written over uninitialized and reclaimed memory in
// builds with the arenadebug tag.
const DebugFillByte = 0xCD

// AllocationContext names the call site of an allocation.
type AllocationContext struct {
	File string
	Line int
	Tag  string
}

// TraceRecord is one traced allocation.
type TraceRecord struct {
	Context AllocationContext
	Block   int
	Offset  int
	Size    int
}

// TracingEnabled reports whether the arenatrace build tag is set.
func TracingEnabled() bool {
	return traceEnabled
}

// Trace returns the live traced allocations in allocation order.
// It is always empty without the arenatrace build tag.
func (a *Arena) Trace() []TraceRecord {
	return slices.Clone(a.trace)
}
