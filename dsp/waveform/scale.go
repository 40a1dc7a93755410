package waveform

import (
	"math"
	"math/bits"

	"github.com/cwbudde/algo-testbench/stream"
)

// Scale maps a unit series into dst for the given sample kind.
//
// Float kinds compute amplitude*series+offset. Integer kinds convert the
// series to fixed point with Bits() fractional bits, multiply by the
// truncated amplitude, shift right arithmetically by Bits(), add the
// offset and cast into the kind's range.
func Scale(dst, series []float64, kind stream.Kind, amplitude, offset float64) {
	if kind.IsFloat() {
		for i, v := range series {
			dst[i] = amplitude*v + offset
		}

		return
	}

	n := kind.Bits()
	amp := int64(amplitude)

	for i, v := range series {
		fixed := int64(math.Ldexp(v, n))
		dst[i] = kind.Cast(float64(mulShift(fixed, amp, n)) + offset)
	}
}

// mulShift returns (a*b)>>n with arithmetic shift semantics, using a
// 128-bit intermediate product.
func mulShift(a, b int64, n int) int64 {
	neg := (a < 0) != (b < 0)

	hi, lo := bits.Mul64(abs64(a), abs64(b))
	q := hi<<(64-n) | lo>>n
	rem := lo & (1<<n - 1)

	if !neg {
		return int64(q)
	}

	if rem != 0 {
		q++
	}

	return -int64(q)
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}

	return uint64(v)
}
