package decross

import (
	"strings"

	"github.com/teranos/decross/errors"
)

// patchWidth is the number of luma samples compared per candidate
const patchWidth = 8

// Kernel selects the implementation of the patch difference.
// Both kernels return identical results.
type Kernel int

const (
	// KernelPacked compares patches 8 samples at a time
	KernelPacked Kernel = iota
	// KernelScalar is the reference sample-by-sample implementation
	KernelScalar
)

func (k Kernel) String() string {
	switch k {
	case KernelPacked:
		return "packed"
	case KernelScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// ParseKernel parses a kernel name as printed by Kernel.String
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(s) {
	case "packed", "":
		return KernelPacked, nil
	case "scalar":
		return KernelScalar, nil
	default:
		return KernelPacked, errors.WithHint(
			errors.NewInvalidConfigError("unknown kernel %q", s),
			"use packed or scalar")
	}
}

// sadFunc returns the sum of absolute differences between the patch starting
// at cand[cx] and the patch starting at ref[rx].
type sadFunc func(cand []byte, cx int, ref []byte, rx int) int

func (k Kernel) sad() sadFunc {
	if k == KernelScalar {
		return sadScalar
	}
	return sad8
}

// at returns row[x] with x clamped to the row
func at(row []byte, x int) byte {
	if x < 0 {
		x = 0
	} else if x >= len(row) {
		x = len(row) - 1
	}
	return row[x]
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func sadScalar(cand []byte, cx int, ref []byte, rx int) int {
	sum := 0
	for k := 0; k < patchWidth; k++ {
		sum += absDiff(at(cand, cx+k), at(ref, rx+k))
	}
	return sum
}

// sad8 is the 8-wide path. Patches that touch a row end fall back to the
// clamped scalar path.
func sad8(cand []byte, cx int, ref []byte, rx int) int {
	if cx < 0 || rx < 0 || cx+patchWidth > len(cand) || rx+patchWidth > len(ref) {
		return sadScalar(cand, cx, ref, rx)
	}
	a := (*[patchWidth]byte)(cand[cx : cx+patchWidth])
	b := (*[patchWidth]byte)(ref[rx : rx+patchWidth])
	return absDiff(a[0], b[0]) + absDiff(a[1], b[1]) +
		absDiff(a[2], b[2]) + absDiff(a[3], b[3]) +
		absDiff(a[4], b[4]) + absDiff(a[5], b[5]) +
		absDiff(a[6], b[6]) + absDiff(a[7], b[7])
}
