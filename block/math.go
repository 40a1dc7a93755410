package block

import (
	"math"

	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
	"github.com/cwbudde/algo-vecmath"
)

// Invert negates its input.
type Invert struct {
	Base
	in *stream.Stream
}

// NewInvert creates an inverting block.
func NewInvert(name string, in *stream.Stream, opts ...Option) *Invert {
	b := &Invert{in: in}
	b.Base = NewBase(name, in.Copy(name), in)
	Attach(b, opts...)

	return b
}

// Recompute implements Node.
func (b *Invert) Recompute(notify.Source) (*stream.Stream, error) {
	dst := b.result.Samples()
	kind := b.result.Kind()

	for i, v := range b.in.Samples() {
		dst[i] = kind.Cast(-v)
	}

	return b.result, nil
}

// Absolute rectifies its input.
type Absolute struct {
	Base
	in *stream.Stream
}

// NewAbsolute creates a full-wave rectifier block.
func NewAbsolute(name string, in *stream.Stream, opts ...Option) *Absolute {
	b := &Absolute{in: in}
	b.Base = NewBase(name, in.Copy(name), in)
	Attach(b, opts...)

	return b
}

// Recompute implements Node.
func (b *Absolute) Recompute(notify.Source) (*stream.Stream, error) {
	dst := b.result.Samples()
	kind := b.result.Kind()

	for i, v := range b.in.Samples() {
		dst[i] = kind.Cast(math.Abs(v))
	}

	return b.result, nil
}

// Add sums two inputs sample by sample.
type Add struct {
	Base
	a, b *stream.Stream
}

// NewAdd creates a summing block. Both inputs must share the same shape
// and kind.
func NewAdd(name string, a, b *stream.Stream, opts ...Option) (*Add, error) {
	if err := checkOperands(name, a, b); err != nil {
		return nil, err
	}

	blk := &Add{a: a, b: b}
	blk.Base = NewBase(name, a.Copy(name), a, b)
	Attach(blk, opts...)

	return blk, nil
}

// Recompute implements Node. Both inputs are read whichever one changed.
func (blk *Add) Recompute(notify.Source) (*stream.Stream, error) {
	dst := blk.result.Samples()
	kind := blk.result.Kind()
	bs := blk.b.Samples()

	for i, v := range blk.a.Samples() {
		dst[i] = kind.Cast(v + bs[i])
	}

	return blk.result, nil
}

// Multiply forms the sample-wise product of two inputs.
type Multiply struct {
	Base
	a, b *stream.Stream
}

// NewMultiply creates a multiplying block. Both inputs must share the same
// shape and kind.
func NewMultiply(name string, a, b *stream.Stream, opts ...Option) (*Multiply, error) {
	if err := checkOperands(name, a, b); err != nil {
		return nil, err
	}

	blk := &Multiply{a: a, b: b}
	blk.Base = NewBase(name, a.Copy(name), a, b)
	Attach(blk, opts...)

	return blk, nil
}

// Recompute implements Node.
func (blk *Multiply) Recompute(notify.Source) (*stream.Stream, error) {
	dst := blk.result.Samples()
	vecmath.MulBlock(dst, blk.a.Samples(), blk.b.Samples())

	kind := blk.result.Kind()
	if !kind.IsFloat() {
		kind.CastSlice(dst, dst)
	}

	return blk.result, nil
}
