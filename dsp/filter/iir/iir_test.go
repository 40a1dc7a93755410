package iir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-testbench/internal/testutil"
	"github.com/cwbudde/algo-testbench/stream"
)

func TestExponentialImpulseResponse(t *testing.T) {
	const (
		cutoff = 100.0
		dt     = 1.0 / 48000
	)

	src := testutil.Impulse(64, 0)
	dst := make([]float64, len(src))

	if err := Exponential(dst, src, cutoff, dt); err != nil {
		t.Fatalf("Exponential: %v", err)
	}

	decay := math.Exp(-2 * math.Pi * cutoff * dt)
	want := make([]float64, len(src))
	for i := range want {
		want[i] = (1 - decay) * math.Pow(decay, float64(i))
	}

	testutil.RequireSliceNearlyEqual(t, dst, want, 1e-12)
}

func TestExponentialLimits(t *testing.T) {
	const dt = 1.0 / 1920

	x := testutil.DeterministicSine(60, 1920, 0.5, 2048)
	dst := make([]float64, len(x))

	if err := Exponential(dst, x, 1e9, dt); err != nil {
		t.Fatalf("Exponential: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, dst, x, 1e-9)

	dc := testutil.DC(0.75, 4096)
	if err := Exponential(dst[:0], nil, 0, dt); err != nil {
		t.Fatalf("empty input: %v", err)
	}

	slow := make([]float64, len(dc))
	if err := Exponential(slow, dc, 0.5, dt); err != nil {
		t.Fatalf("Exponential: %v", err)
	}

	for i := 1; i < len(slow); i++ {
		if slow[i] < slow[i-1] {
			t.Fatalf("step response not monotonic at %d", i)
		}
	}

	if slow[len(slow)-1] >= 0.75 {
		t.Fatalf("slow filter overshoot: %v", slow[len(slow)-1])
	}

	zero := make([]float64, len(dc))
	if err := Exponential(zero, dc, 0, dt); err != nil {
		t.Fatalf("Exponential: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, zero, make([]float64, len(dc)), 0)
}

func TestExponentialInvalidCutoff(t *testing.T) {
	dst := make([]float64, 4)
	for _, fc := range []float64{-1, math.NaN()} {
		if err := Exponential(dst, dst, fc, 1); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("cutoff %v: err=%v, want ErrInvalidParameter", fc, err)
		}
	}
}

func TestPowerOfTwoUnitWindow(t *testing.T) {
	src := []float64{5, -3, 7, 2, -8}
	dst := make([]float64, len(src))

	for _, kind := range []stream.Kind{stream.Float64, stream.Int16} {
		if err := PowerOfTwo(dst, src, 0, kind); err != nil {
			t.Fatalf("PowerOfTwo: %v", err)
		}

		want := []float64{0, -3, 7, 2, -8}
		testutil.RequireSliceNearlyEqual(t, dst, want, 0)
	}
}

func TestPowerOfTwoUnitWindowSine(t *testing.T) {
	src := testutil.DeterministicSine(60, 1920, 0.5, 2048)
	dst := make([]float64, len(src))

	if err := PowerOfTwo(dst, src, 0, stream.Float64); err != nil {
		t.Fatalf("PowerOfTwo: %v", err)
	}

	if dst[0] != 0 {
		t.Fatalf("dst[0]=%v, want 0", dst[0])
	}

	for i := 1; i < len(src); i++ {
		if dst[i] != src[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, dst[i], src[i])
		}
	}
}

func TestPowerOfTwoTruncation(t *testing.T) {
	src := []float64{0, 10, 10, 10, -10}
	dst := make([]float64, len(src))

	if err := PowerOfTwo(dst, src, 2, stream.Int16); err != nil {
		t.Fatalf("PowerOfTwo: %v", err)
	}

	// acc: 0, 0+2=2, 2+2=4, 4+1=5, 5+trunc(-15/4)=2
	testutil.RequireSliceNearlyEqual(t, dst, []float64{0, 2, 4, 5, 2}, 0)

	if err := PowerOfTwo(dst, src, 2, stream.Float64); err != nil {
		t.Fatalf("PowerOfTwo: %v", err)
	}

	// acc: 0, 2.5, 4.375, 5.78125, 5.78125-15.78125/4
	want := []float64{0, 2.5, 4.375, 5.78125, 5.78125 - 15.78125/4}
	testutil.RequireSliceNearlyEqual(t, dst, want, 1e-12)
}

func TestPowerOfTwoInvalidExponent(t *testing.T) {
	dst := make([]float64, 2)
	if err := PowerOfTwo(dst, dst, -1, stream.Float64); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err=%v, want ErrInvalidParameter", err)
	}

	if err := PowerOfTwo(nil, nil, 3, stream.Float64); err != nil {
		t.Fatalf("empty input: %v", err)
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{TypeFloatCutoff, TypeIntegerWindow} {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q)=%v, %v", typ, got, err)
		}
	}

	if _, err := ParseType("biquad"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}

	if s := Type(9).String(); s != "Type(9)" {
		t.Fatalf("String=%q", s)
	}
}
