package iir

import (
	"fmt"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

// MaxPoles is the number of cascaded stages in a MultiPole filter.
const MaxPoles = 3

// MultiPole cascades MaxPoles power-of-two stages sharing one exponent.
// The pole count parameter selects the stage copied to the result; zero
// passes the input through.
type MultiPole struct {
	block.Base
	in     *stream.Stream
	poles  *stream.Parameter
	stages [MaxPoles]*PowerOfTwoFilter
}

// NewMultiPole creates a cascaded filter block. The stages are built with
// the same options as the block itself.
func NewMultiPole(name string, in *stream.Stream, exponent, poles *stream.Parameter, opts ...block.Option) *MultiPole {
	m := &MultiPole{in: in, poles: poles}

	prev := in
	for i := range m.stages {
		m.stages[i] = NewPowerOfTwo(fmt.Sprintf("%s/p%d", name, i+1), prev, exponent, opts...)
		prev = m.stages[i].Result()
	}

	m.Base = block.NewBase(name, in.Copy(name), poles, prev)
	block.Attach(m, opts...)

	return m
}

// Stage returns the i-th stage, counting from one.
func (m *MultiPole) Stage(i int) *PowerOfTwoFilter { return m.stages[i-1] }

// Poles returns the selected pole count.
func (m *MultiPole) Poles() int { return m.poles.Int() }

// Recompute implements block.Node.
func (m *MultiPole) Recompute(notify.Source) (*stream.Stream, error) {
	n := m.Poles()
	if n < 0 || n > MaxPoles {
		return nil, fmt.Errorf("%w: pole count must be in [0,%d]: %d", ErrInvalidParameter, MaxPoles, n)
	}

	src := m.in
	if n > 0 {
		src = m.stages[n-1].Result()
	}

	copy(m.Result().Samples(), src.Samples())

	return m.Result(), nil
}
