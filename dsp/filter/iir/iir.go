package iir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

// ErrInvalidParameter reports a negative cutoff or exponent.
var ErrInvalidParameter = errors.New("iir: invalid parameter")

// Type selects the filter form.
type Type int

const (
	// TypeFloatCutoff is the exponential filter parameterized by cutoff frequency.
	TypeFloatCutoff Type = iota
	// TypeIntegerWindow is the power-of-two filter parameterized by window exponent.
	TypeIntegerWindow
)

var typeNames = [...]string{
	TypeFloatCutoff:   "float-cutoff",
	TypeIntegerWindow: "integer-window",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}

	return typeNames[t]
}

// ParseType resolves a filter form by name.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown filter type %q", ErrInvalidParameter, name)
}

// New builds a filter block of the given form. coeff is the cutoff in Hz
// for TypeFloatCutoff and the window exponent for TypeIntegerWindow.
func New(t Type, name string, in *stream.Stream, coeff *stream.Parameter, opts ...block.Option) (block.Node, error) {
	switch t {
	case TypeFloatCutoff:
		return NewExponential(name, in, coeff, opts...), nil
	case TypeIntegerWindow:
		return NewPowerOfTwo(name, in, coeff, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown filter type %d", ErrInvalidParameter, int(t))
	}
}

// Exponential writes the exponential moving average of src to dst.
// The state starts at zero.
func Exponential(dst, src []float64, cutoff, dt float64) error {
	if !(cutoff >= 0) {
		return fmt.Errorf("%w: cutoff must be >= 0: %g", ErrInvalidParameter, cutoff)
	}

	decay := math.Exp(-2 * math.Pi * cutoff * dt)
	gain := 1 - decay

	avg := 0.0
	for i, x := range src {
		avg = decay*avg + gain*x
		dst[i] = avg
	}

	return nil
}

// PowerOfTwo writes the power-of-two smoothed src to dst using the division
// semantics of kind. The first output sample is zero. With exponent 0 the
// remaining samples equal src exactly.
func PowerOfTwo(dst, src []float64, exponent int, kind stream.Kind) error {
	if exponent < 0 {
		return fmt.Errorf("%w: exponent must be >= 0: %d", ErrInvalidParameter, exponent)
	}

	if len(src) == 0 {
		return nil
	}

	window := math.Ldexp(1, exponent)

	acc := 0.0
	dst[0] = acc

	for i := 1; i < len(src); i++ {
		if window == 1 {
			// acc + (x-acc) can round away from x.
			acc = src[i]
		} else {
			acc += kind.Div(src[i]-acc, window)
		}

		dst[i] = acc
	}

	return nil
}

// ExponentialFilter is the block form of Exponential.
type ExponentialFilter struct {
	block.Base
	in     *stream.Stream
	cutoff *stream.Parameter
}

// NewExponential creates an exponential filter block.
func NewExponential(name string, in *stream.Stream, cutoff *stream.Parameter, opts ...block.Option) *ExponentialFilter {
	f := &ExponentialFilter{in: in, cutoff: cutoff}
	f.Base = block.NewBase(name, in.Copy(name), in, cutoff)
	block.Attach(f, opts...)

	return f
}

// Cutoff returns the cutoff frequency in Hz.
func (f *ExponentialFilter) Cutoff() float64 { return f.cutoff.Value() }

// Recompute implements block.Node.
func (f *ExponentialFilter) Recompute(notify.Source) (*stream.Stream, error) {
	out := f.Result()
	if err := Exponential(out.Samples(), f.in.Samples(), f.cutoff.Value(), f.in.DeltaT()); err != nil {
		return nil, err
	}

	out.Kind().CastSlice(out.Samples(), out.Samples())

	return out, nil
}

// PowerOfTwoFilter is the block form of PowerOfTwo.
type PowerOfTwoFilter struct {
	block.Base
	in       *stream.Stream
	exponent *stream.Parameter
}

// NewPowerOfTwo creates a power-of-two filter block.
func NewPowerOfTwo(name string, in *stream.Stream, exponent *stream.Parameter, opts ...block.Option) *PowerOfTwoFilter {
	f := &PowerOfTwoFilter{in: in, exponent: exponent}
	f.Base = block.NewBase(name, in.Copy(name), in, exponent)
	block.Attach(f, opts...)

	return f
}

// Exponent returns the window exponent k.
func (f *PowerOfTwoFilter) Exponent() int { return f.exponent.Int() }

// Window returns 2^k.
func (f *PowerOfTwoFilter) Window() float64 { return math.Ldexp(1, f.Exponent()) }

// TimeConstant returns window*dt in seconds.
func (f *PowerOfTwoFilter) TimeConstant() float64 {
	return f.Window() * f.in.DeltaT()
}

// CornerFrequency returns 1/(2*pi*TimeConstant) in Hz.
func (f *PowerOfTwoFilter) CornerFrequency() float64 {
	return 1 / (2 * math.Pi * f.TimeConstant())
}

// Recompute implements block.Node.
func (f *PowerOfTwoFilter) Recompute(notify.Source) (*stream.Stream, error) {
	out := f.Result()
	if err := PowerOfTwo(out.Samples(), f.in.Samples(), f.Exponent(), out.Kind()); err != nil {
		return nil, err
	}

	return out, nil
}
