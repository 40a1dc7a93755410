package waveform

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

// Generator writes a waveform into its output stream.
type Generator struct {
	out    *stream.Stream
	shape  Shape
	offset float64
	seed   int64
	rng    *rand.Rand
	series []float64

	control   float64
	amplitude float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithOffset sets the constant added to every sample.
func WithOffset(offset float64) Option {
	return func(g *Generator) {
		g.offset = offset
	}
}

// WithSeed sets the seed of the random shape.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// New creates a generator writing into out.
func New(out *stream.Stream, shape Shape, opts ...Option) (*Generator, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}

	g := &Generator{
		out:    out,
		shape:  shape,
		seed:   1,
		series: make([]float64, out.Len()),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	g.rng = rand.New(rand.NewSource(g.seed))

	return g, nil
}

// Stream returns the output stream.
func (g *Generator) Stream() *stream.Stream { return g.out }

// Shape returns the current shape.
func (g *Generator) Shape() Shape { return g.shape }

// SetShape switches the waveform. The output is not regenerated.
func (g *Generator) SetShape(shape Shape) error {
	if !shape.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}

	g.shape = shape

	return nil
}

// SetSeed restarts the random source.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// Offset returns the constant added to every sample.
func (g *Generator) Offset() float64 { return g.offset }

// Control returns the frequency or width of the last generation.
func (g *Generator) Control() float64 { return g.control }

// Amplitude returns the amplitude of the last generation.
func (g *Generator) Amplitude() float64 { return g.amplitude }

// MaxFrequency bounds the frequency control of periodic shapes.
func (g *Generator) MaxFrequency() float64 { return g.out.MaxFrequency() }

// MaxAmplitude bounds the amplitude control.
func (g *Generator) MaxAmplitude() float64 { return g.out.FullScale() }

// MaxWidth bounds the width control of pulse shapes: a tenth of the stream
// for box pulses and the Nyquist frequency for the sinc bandwidth.
func (g *Generator) MaxWidth() float64 {
	if g.shape == PulseSinc {
		return g.out.Nyquist()
	}

	return float64(g.out.Len() / 10)
}

// Generate overwrites the output samples. control is the frequency in Hz
// for periodic shapes and the width for pulses. Subscribers are not
// notified. The frequency is not limited to MaxFrequency.
func (g *Generator) Generate(control, amplitude float64) error {
	var err error
	if g.shape.IsPulse() {
		err = Pulse(g.series, g.shape, control, g.out.DeltaT())
	} else {
		err = Periodic(g.series, g.out.TimeSeries(), g.shape, control, g.rng)
	}

	if err != nil {
		return err
	}

	g.control = control
	g.amplitude = amplitude

	Scale(g.out.Samples(), g.series, g.out.Kind(), amplitude, g.offset)

	return nil
}

// Update generates and notifies the output's subscribers.
func (g *Generator) Update(control, amplitude float64) error {
	if err := g.Generate(control, amplitude); err != nil {
		return err
	}

	return g.out.Notify()
}

// Bind regenerates whenever control or amplitude changes and performs one
// update with their current values.
func (g *Generator) Bind(control, amplitude *stream.Parameter) error {
	update := func(notify.Source) error {
		return g.Update(control.Value(), amplitude.Value())
	}

	control.Subscribe(update)
	amplitude.Subscribe(update)

	return update(nil)
}
