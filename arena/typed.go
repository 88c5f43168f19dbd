package arena

import (
	"fmt"
	"math"
	"reflect"
	"sync"
	"unsafe"

	"github.com/hupe1980/arenakit/internal/conv"
)

var pointerFree sync.Map // reflect.Type -> bool

// PointerFree reports whether values of type T contain no Go pointers and
// may therefore live in arena memory, which the garbage collector does not
// scan.
func PointerFree[T any]() bool {
	t := reflect.TypeFor[T]()
	if v, ok := pointerFree.Load(t); ok {
		return v.(bool)
	}
	ok := !hasPointers(t)
	pointerFree.Store(t, ok)
	return ok
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func mustBePointerFree[T any]() {
	if !PointerFree[T]() {
		panic(fmt.Sprintf("arena: type %v contains pointers and cannot be stored in an arena", reflect.TypeFor[T]()))
	}
}

// Alloc allocates a zeroed T in the arena. T must be pointer-free.
func Alloc[T any](a *Arena) (*T, error) {
	mustBePointerFree[T]()
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	b, err := a.Alloc(size, int(unsafe.Alignof(zero)), true)
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil //nolint:gosec // unsafe is required for arena implementation
}

// MakeSlice allocates a zeroed slice of n elements in the arena.
// T must be pointer-free. Returns nil if n <= 0.
func MakeSlice[T any](a *Arena, n int) ([]T, error) {
	return makeSlice[T](a, n, true)
}

// MakeSliceUninit is MakeSlice without zeroing; element values are
// whatever the reused memory held.
func MakeSliceUninit[T any](a *Arena, n int) ([]T, error) {
	return makeSlice[T](a, n, false)
}

func makeSlice[T any](a *Arena, n int, zero bool) ([]T, error) {
	mustBePointerFree[T]()
	if n <= 0 {
		return nil, nil
	}
	var elem T
	elemSize := int(unsafe.Sizeof(elem))
	if elemSize == 0 {
		return make([]T, n), nil
	}
	align := int(unsafe.Alignof(elem))
	total, err := conv.MulInt(n, elemSize)
	if err != nil {
		err = fmt.Errorf("slice of %d elements of %d bytes: %w", n, elemSize, err)
		return nil, a.outOfMemory(math.MaxInt, align, err)
	}
	b, err := a.Alloc(total, align, zero)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil //nolint:gosec // unsafe is required for arena implementation
}

// AllocString copies s into the arena and returns the arena-backed copy.
func AllocString(a *Arena, s string) (string, error) {
	if len(s) == 0 {
		return "", nil
	}
	b, err := a.Alloc(len(s), 1, false)
	if err != nil {
		return "", err
	}
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(b)), nil //nolint:gosec // unsafe is required for arena implementation
}
