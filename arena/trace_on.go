//go:build arenatrace

package arena

import "runtime"

const traceEnabled = true

// Here returns the caller's allocation context tagged with tag.
func Here(tag string) AllocationContext {
	_, file, line, _ := runtime.Caller(1)
	return AllocationContext{File: file, Line: line, Tag: tag}
}
