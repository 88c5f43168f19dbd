package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when an arithmetic result does not fit in its type.
var ErrOverflow = errors.New("integer overflow")

// AddInt returns a+b for non-negative operands, or ErrOverflow.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative operand (%d + %d)", ErrOverflow, a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}

// MulInt returns a*b for non-negative operands, or ErrOverflow.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative operand (%d * %d)", ErrOverflow, a, b)
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return int(lo), nil
}

// IsPowerOfTwo reports whether v is a positive power of two.
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= v (1 for v <= 1).
func NextPowerOfTwo(v int) (int, error) {
	if v <= 1 {
		return 1, nil
	}
	n := bits.Len(uint(v - 1))
	if n >= bits.UintSize-1 {
		return 0, fmt.Errorf("%w: next power of two of %d", ErrOverflow, v)
	}
	return 1 << n, nil
}

// AlignUp rounds n up to a multiple of align, which must be a power of two.
func AlignUp(n, align int) (int, error) {
	mask := align - 1
	sum, err := AddInt(n, mask)
	if err != nil {
		return 0, err
	}
	return sum &^ mask, nil
}

// Padding returns the number of bytes needed to move addr up to the next
// multiple of align, which must be a power of two.
func Padding(addr uintptr, align int) int {
	mask := uintptr(align) - 1
	return int((uintptr(align) - (addr & mask)) & mask)
}

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}
