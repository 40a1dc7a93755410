// Package stream provides the observable data containers of a test bench:
// fixed-shape sample streams, scalar parameters and diagnostic groups.
//
// A stream's shape (sample interval, sample count, oversampling ratio and
// representation kind) is fixed at construction. Producers overwrite the
// samples in place and then call [Stream.Notify]; every subscriber has
// observed the new samples when Notify returns.
package stream

import (
	"fmt"

	"github.com/cwbudde/algo-testbench/notify"
)

// Stream is a named, fixed-length buffer of periodic samples.
type Stream struct {
	name    string
	cfg     Config
	samples []float64
	times   []float64
	n       *notify.Notifier
}

// New creates a zero-filled stream.
func New(name string, opts ...Option) (*Stream, error) {
	return FromConfig(name, ApplyOptions(opts...))
}

// FromConfig creates a zero-filled stream from an explicit configuration.
func FromConfig(name string, cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stream %q: %w", name, err)
	}

	return newStream(name, cfg), nil
}

// MustNew is like New but panics on error.
func MustNew(name string, opts ...Option) *Stream {
	s, err := New(name, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

func newStream(name string, cfg Config) *Stream {
	s := &Stream{
		name:    name,
		cfg:     cfg,
		samples: make([]float64, cfg.SampleCount),
		times:   make([]float64, cfg.SampleCount),
	}
	for i := range s.times {
		s.times[i] = cfg.DeltaT * float64(i+1)
	}

	s.n = notify.New(s)

	return s
}

// Name returns the stream name.
func (s *Stream) Name() string { return s.name }

// Subscribe registers fn to be called after every change.
func (s *Stream) Subscribe(fn notify.Subscriber) { s.n.Subscribe(fn) }

// Notify tells all subscribers that the samples changed. Passing any
// payload other than s fails with notify.ErrInvalidNotification.
func (s *Stream) Notify(payload ...notify.Source) error {
	return s.n.Notify(payload...)
}

// Config returns the stream shape.
func (s *Stream) Config() Config { return s.cfg }

// Samples returns the live sample buffer. Only the stream's producer may
// write to it.
func (s *Stream) Samples() []float64 { return s.samples }

// TimeSeries returns the sample times dt*(i+1).
func (s *Stream) TimeSeries() []float64 { return s.times }

// Len returns the sample count.
func (s *Stream) Len() int { return s.cfg.SampleCount }

// DeltaT returns the sample interval in seconds.
func (s *Stream) DeltaT() float64 { return s.cfg.DeltaT }

// SampleCount returns the number of samples.
func (s *Stream) SampleCount() int { return s.cfg.SampleCount }

// OSR returns the oversampling ratio.
func (s *Stream) OSR() int { return s.cfg.OSR }

// Kind returns the sample representation.
func (s *Stream) Kind() Kind { return s.cfg.Kind }

// FullScale returns the kind's positive full-scale value.
func (s *Stream) FullScale() float64 { return s.cfg.Kind.FullScale() }

// Extents returns the kind's display span.
func (s *Stream) Extents() float64 { return s.cfg.Kind.Extents() }

// SampleRate returns 1/dt.
func (s *Stream) SampleRate() float64 { return 1 / s.cfg.DeltaT }

// Nyquist returns half the sample rate.
func (s *Stream) Nyquist() float64 { return 0.5 / s.cfg.DeltaT }

// MaxFrequency returns the highest frequency of interest, the Nyquist
// frequency divided by the oversampling ratio.
func (s *Stream) MaxFrequency() float64 {
	return s.Nyquist() / float64(s.cfg.OSR)
}

// SameShape reports whether o has the same sample interval, count and
// oversampling ratio.
func (s *Stream) SameShape(o *Stream) bool {
	return s.cfg.DeltaT == o.cfg.DeltaT &&
		s.cfg.SampleCount == o.cfg.SampleCount &&
		s.cfg.OSR == o.cfg.OSR
}

// Assign replaces the samples with samples cast into the stream's kind.
// The kind must match the stream's kind and the length its sample count.
func (s *Stream) Assign(kind Kind, samples []float64) error {
	if kind != s.cfg.Kind {
		return fmt.Errorf("%w: %s: got %s, want %s", ErrKind, s.name, kind, s.cfg.Kind)
	}

	if len(samples) != len(s.samples) {
		return fmt.Errorf("%w: %s: got %d, want %d", ErrShape, s.name, len(samples), len(s.samples))
	}

	s.cfg.Kind.CastSlice(s.samples, samples)

	return nil
}

// AssignFrom copies the samples of o, which must share kind and length.
func (s *Stream) AssignFrom(o *Stream) error {
	return s.Assign(o.cfg.Kind, o.samples)
}

// Copy returns a zero-filled stream with the same shape and kind.
func (s *Stream) Copy(name string) *Stream {
	return newStream(name, s.cfg)
}

// CopyAs returns a zero-filled stream with the same shape and another kind.
func (s *Stream) CopyAs(name string, kind Kind) (*Stream, error) {
	cfg := s.cfg
	cfg.Kind = kind

	return FromConfig(name, cfg)
}

func (s *Stream) String() string {
	return fmt.Sprintf("%s[%s n=%d dt=%g osr=%d]", s.name, s.cfg.Kind, s.cfg.SampleCount, s.cfg.DeltaT, s.cfg.OSR)
}
