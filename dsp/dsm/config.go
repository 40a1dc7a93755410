package dsm

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig reports an unsupported order, topology or gain.
var ErrInvalidConfig = errors.New("dsm: invalid configuration")

// Topology selects how modulator stages are combined.
type Topology int

const (
	// Direct uses a single loop of the configured order.
	Direct Topology = iota
	// MASH cascades a signal loop of the configured order with a
	// first-order noise loop.
	MASH
)

var topologyNames = [...]string{
	Direct: "direct",
	MASH:   "mash",
}

func (t Topology) String() string {
	if t < 0 || int(t) >= len(topologyNames) {
		return fmt.Sprintf("Topology(%d)", int(t))
	}

	return topologyNames[t]
}

// ParseTopology resolves a topology by name.
func ParseTopology(name string) (Topology, error) {
	for t, n := range topologyNames {
		if n == name {
			return Topology(t), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown topology %q", ErrInvalidConfig, name)
}

// Config selects a modulator.
type Config struct {
	Order    int
	Topology Topology
	// Gain is the integrator gain. Zero means 1.
	Gain float64
}

// Tap is one named intermediate signal of a modulation run.
type Tap struct {
	Name    string
	Samples []float64
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Order != 1 && c.Order != 2 {
		return fmt.Errorf("%w: order must be 1 or 2: %d", ErrInvalidConfig, c.Order)
	}

	if c.Topology != Direct && c.Topology != MASH {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Topology)
	}

	if c.Gain < 0 {
		return fmt.Errorf("%w: gain must not be negative: %g", ErrInvalidConfig, c.Gain)
	}

	return nil
}

func (c Config) gain() float64 {
	if c.Gain == 0 {
		return 1
	}

	return c.Gain
}

func (c Config) String() string {
	if c.Topology == MASH {
		return fmt.Sprintf("mash %d-1", c.Order)
	}

	return fmt.Sprintf("direct order %d", c.Order)
}

// TapNames returns the names of the signals returned by Modulate, in
// order. The modulated output is always last.
func (c Config) TapNames() []string {
	switch {
	case c.Topology == MASH:
		return []string{"e(1)", "v(y)"}
	case c.Order == 2:
		return []string{"v(u)", "v(v)", "v(y)"}
	default:
		return []string{"v(u)", "v(y)"}
	}
}

// Modulate runs the configured topology on x.
func (c Config) Modulate(x []float64) ([]Tap, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g := c.gain()

	var signals [][]float64

	switch {
	case c.Topology == MASH && c.Order == 1:
		e, y := Mash11(x, g)
		signals = [][]float64{e, y}
	case c.Topology == MASH:
		e, y := Mash21(x, g)
		signals = [][]float64{e, y}
	case c.Order == 2:
		u, v, y := SecondOrder(x, g)
		signals = [][]float64{u, v, y}
	default:
		u, y := FirstOrder(x, g)
		signals = [][]float64{u, y}
	}

	names := c.TapNames()
	taps := make([]Tap, len(signals))

	for i, s := range signals {
		taps[i] = Tap{Name: names[i], Samples: s}
	}

	return taps, nil
}
