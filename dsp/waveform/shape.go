package waveform

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrUnknownShape is returned for shape names or values outside the
// supported set.
var ErrUnknownShape = errors.New("waveform: unknown shape")

// Shape selects the generated waveform.
type Shape int

const (
	Sine Shape = iota
	Square
	Triangle
	Random
	PulseRectangle
	PulseStep
	PulseSinc
)

var shapeNames = [...]string{
	Sine:           "sine",
	Square:         "square",
	Triangle:       "triangle",
	Random:         "random",
	PulseRectangle: "pulse-rectangle",
	PulseStep:      "pulse-step",
	PulseSinc:      "pulse-sinc",
}

// minSincBandwidth keeps the sinc argument away from zero width.
const minSincBandwidth = 0.001

// Shapes returns all shapes in declaration order.
func Shapes() []Shape {
	out := make([]Shape, len(shapeNames))
	for i := range out {
		out[i] = Shape(i)
	}

	return out
}

// ParseShape resolves a shape by name.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s >= 0 && int(s) < len(shapeNames)
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}

	return shapeNames[s]
}

// IsPulse reports whether the shape is controlled by a width instead of a
// frequency.
func (s Shape) IsPulse() bool {
	return s == PulseRectangle || s == PulseStep || s == PulseSinc
}

// Periodic writes the unit series of a periodic shape evaluated at times
// into dst. rng is only consulted for Random.
func Periodic(dst, times []float64, shape Shape, freq float64, rng *rand.Rand) error {
	if len(dst) != len(times) {
		return fmt.Errorf("waveform: length mismatch: %d != %d", len(dst), len(times))
	}

	w := 2 * math.Pi * freq

	switch shape {
	case Sine:
		for i, t := range times {
			dst[i] = math.Sin(w * t)
		}
	case Square:
		for i, t := range times {
			dst[i] = sign(math.Sin(w * t))
		}
	case Triangle:
		for i, t := range times {
			dst[i] = 2 / math.Pi * math.Asin(math.Sin(w*t))
		}
	case Random:
		if rng == nil {
			return fmt.Errorf("waveform: random shape needs a source")
		}

		for i := range dst {
			dst[i] = rng.Float64()*2 - 1
		}
	default:
		return fmt.Errorf("%w: %s is not periodic", ErrUnknownShape, shape)
	}

	return nil
}

// Pulse writes the unit series of a pulse shape into dst. For rectangle
// pulses width is a sample count, for sinc pulses it is the bandwidth in Hz
// and dt the sample interval.
func Pulse(dst []float64, shape Shape, width, dt float64) error {
	n := len(dst)
	mid := n / 2

	clear(dst)

	switch shape {
	case PulseRectangle:
		w := int(width)
		start := max(mid-w/2, 0)
		end := min(mid-w/2+w, n)

		for i := start; i < end; i++ {
			dst[i] = 1
		}
	case PulseStep:
		for i := mid; i < n; i++ {
			dst[i] = 1
		}
	case PulseSinc:
		bw := max(width, minSincBandwidth)

		for i := range dst {
			t := float64(i-mid) * dt
			if t == 0 {
				dst[i] = 1
				continue
			}

			x := 2 * bw * math.Pi * t
			dst[i] = math.Sin(x) / x
		}
	default:
		return fmt.Errorf("%w: %s is not a pulse", ErrUnknownShape, shape)
	}

	return nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
