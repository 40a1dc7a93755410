// Package testutil holds deterministic signals and assertions shared by
// package tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-testbench/stream"
)

// DeterministicSine returns amplitude*sin(2*pi*freqHz*i/sampleRate) for
// i in [0, length).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude) from
// a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos. Positions outside the frame give
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns a constant frame.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Stream builds a stream shaped by opts and loads samples into it. The
// sample count is taken from samples.
func Stream(t testing.TB, name string, samples []float64, opts ...stream.Option) *stream.Stream {
	t.Helper()

	opts = append(opts, stream.WithSampleCount(len(samples)))

	s, err := stream.New(name, opts...)
	if err != nil {
		t.Fatalf("stream %s: %v", name, err)
	}

	if err := s.Assign(s.Kind(), samples); err != nil {
		t.Fatalf("stream %s: %v", name, err)
	}

	return s
}
