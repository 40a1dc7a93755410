// Package snr measures the baseband signal-to-noise ratio of oversampled
// streams.
//
// The baseband is the lowest 1/osr of the single-sided spectrum. The
// strongest bin inside it is taken as the signal, so the input is expected
// to be a coherent tone; every other in-band bin counts as noise.
package snr

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-testbench/dsp/core"
	"github.com/cwbudde/algo-testbench/dsp/spectrum"
	"github.com/cwbudde/algo-testbench/dsp/window"
	"github.com/cwbudde/algo-testbench/stream"
)

// ErrInvalidOSR is returned for oversampling ratios below 1.
var ErrInvalidOSR = errors.New("snr: invalid oversampling ratio")

// Result holds a baseband SNR measurement.
type Result struct {
	// Bandwidth is the upper edge of the baseband in Hz.
	Bandwidth float64
	// BandBins is the number of spectrum bins inside the baseband.
	BandBins int
	// SNR is the signal to in-band noise power ratio in dB.
	SNR float64
	// SignalFrequency is the center frequency of the signal bin in Hz.
	SignalFrequency float64
	SignalPower     float64
	NoisePower      float64
}

type config struct {
	window    window.Type
	excludeDC bool
}

// Option configures Analyze.
type Option func(*config)

// WithWindow selects the analysis window. The default is rectangular.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// WithoutDC leaves bin 0 out of the baseband, for streams carrying an
// offset.
func WithoutDC() Option {
	return func(c *config) {
		c.excludeDC = true
	}
}

// Analyze measures the baseband SNR of s using its sample rate and
// oversampling ratio.
func Analyze(s *stream.Stream, opts ...Option) (Result, error) {
	return AnalyzeSamples(s.Samples(), s.SampleRate(), s.OSR(), opts...)
}

// AnalyzeSamples measures the baseband SNR of samples taken at rate.
func AnalyzeSamples(samples []float64, rate float64, osr int, opts ...Option) (Result, error) {
	if osr < 1 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidOSR, osr)
	}

	cfg := config{window: window.TypeRectangular}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	spec, err := spectrum.Compute(samples, rate, cfg.window)
	if err != nil {
		return Result{}, err
	}

	bins := spec.Bins()
	band := min(int(math.Ceil(float64(bins)/float64(osr))), bins-1)

	lo := 0
	if cfg.excludeDC {
		lo = 1
	}

	if band <= lo {
		// Too few bins to hold a baseband.
		return Result{
			Bandwidth: spec.Frequency(band),
			BandBins:  band,
			SNR:       math.NaN(),
		}, nil
	}

	sig := spec.Peak(lo, band)

	noise := 0.0
	for k := lo; k < band; k++ {
		if k != sig {
			noise += spec.Power[k]
		}
	}

	res := Result{
		Bandwidth:       spec.Frequency(band),
		BandBins:        band,
		SignalFrequency: spec.Frequency(sig),
		SignalPower:     spec.Power[sig],
		NoisePower:      noise,
	}

	switch {
	case noise == 0 && res.SignalPower == 0:
		res.SNR = math.NaN()
	case noise == 0:
		res.SNR = math.Inf(1)
	default:
		res.SNR = core.PowerDB(res.SignalPower / noise)
	}

	return res, nil
}
