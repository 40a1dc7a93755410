package block

import (
	"math"

	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

// Shift scales its input by 2^count. Negative counts divide and truncate
// toward zero for integer kinds.
type Shift struct {
	Base
	in    *stream.Stream
	count int
}

// NewShift creates a binary shift block.
func NewShift(name string, in *stream.Stream, count int, opts ...Option) *Shift {
	b := &Shift{in: in, count: count}
	b.Base = NewBase(name, in.Copy(name), in)
	Attach(b, opts...)

	return b
}

// Count returns the shift count.
func (b *Shift) Count() int { return b.count }

// Recompute implements Node.
func (b *Shift) Recompute(notify.Source) (*stream.Stream, error) {
	dst := b.result.Samples()
	src := b.in.Samples()
	kind := b.result.Kind()

	switch {
	case b.count > 0:
		scale := math.Ldexp(1, b.count)
		for i, v := range src {
			dst[i] = kind.Cast(v * scale)
		}
	case b.count < 0:
		div := math.Ldexp(1, -b.count)
		for i, v := range src {
			dst[i] = kind.Cast(kind.Div(v, div))
		}
	default:
		copy(dst, src)
	}

	return b.result, nil
}

// Cast copies its input into a result of another kind, truncating and
// wrapping values the target kind cannot hold.
type Cast struct {
	Base
	in *stream.Stream
}

// NewCast creates a representation conversion block.
func NewCast(name string, in *stream.Stream, kind stream.Kind, opts ...Option) (*Cast, error) {
	result, err := in.CopyAs(name, kind)
	if err != nil {
		return nil, err
	}

	b := &Cast{in: in}
	b.Base = NewBase(name, result, in)
	Attach(b, opts...)

	return b, nil
}

// Recompute implements Node.
func (b *Cast) Recompute(notify.Source) (*stream.Stream, error) {
	b.result.Kind().CastSlice(b.result.Samples(), b.in.Samples())
	return b.result, nil
}
