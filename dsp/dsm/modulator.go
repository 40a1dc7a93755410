package dsm

import (
	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

// Modulator is a delta-sigma modulator block. Its result is the modulated
// output; its test points are the input followed by the topology's taps.
type Modulator struct {
	block.Base
	cfg    Config
	in     *stream.Stream
	probes []*stream.Stream
	tp     *stream.Group
}

// New creates a modulator block for the given configuration.
func New(name string, in *stream.Stream, cfg Config, opts ...block.Option) (*Modulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Modulator{cfg: cfg, in: in}

	for _, tap := range cfg.TapNames() {
		p, err := in.CopyAs(tap, stream.Float64)
		if err != nil {
			return nil, err
		}

		m.probes = append(m.probes, p)
	}

	m.Base = block.NewBase(name, in.Copy(name), in)
	block.Attach(m, opts...)

	return m, nil
}

// Config returns the modulator configuration.
func (m *Modulator) Config() Config { return m.cfg }

// TestPoints returns the diagnostic group, populating it on first use and
// after every reset.
func (m *Modulator) TestPoints() *stream.Group {
	if m.tp == nil {
		m.tp = stream.NewGroup(m.Name() + " test points")
	}

	if m.tp.Len() == 0 {
		m.tp.Append(m.in)

		for _, p := range m.probes {
			m.tp.Append(p)
		}
	}

	return m.tp
}

// Recompute implements block.Node.
func (m *Modulator) Recompute(notify.Source) (*stream.Stream, error) {
	taps, err := m.cfg.Modulate(m.in.Samples())
	if err != nil {
		return nil, err
	}

	m.TestPoints().Reset()
	m.TestPoints()

	for i, tap := range taps {
		copy(m.probes[i].Samples(), tap.Samples)
	}

	out := m.Result()
	out.Kind().CastSlice(out.Samples(), taps[len(taps)-1].Samples)

	for _, p := range m.probes {
		if err := p.Notify(); err != nil {
			return nil, err
		}
	}

	return out, nil
}
