package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-testbench/dsp/core"
	"github.com/cwbudde/algo-testbench/dsp/window"
)

// ErrEmpty is returned for frames without samples or without a sample rate.
var ErrEmpty = errors.New("spectrum: empty frame")

type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)

	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}

	return buf.data[:n], buf.data[n:need], buf
}

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	scratchPool.Put(buf)

	return out
}

// Magnitude returns |X[k]| for each bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)

	return out
}

// Spectrum is the non-negative frequency half of a frame's transform.
type Spectrum struct {
	// Power holds |X[k]|^2 for bins 0..FFTSize/2.
	Power      []float64
	FFTSize    int
	SampleRate float64
	// Frame is the number of signal samples before zero padding.
	Frame  int
	Window window.Type
}

// Compute windows samples, zero-pads them to the next power of two and
// returns the single-sided power spectrum.
func Compute(samples []float64, sampleRate float64, win window.Type) (Spectrum, error) {
	if len(samples) == 0 || sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("%w: %d samples at %g Hz", ErrEmpty, len(samples), sampleRate)
	}

	size := core.NextPowerOfTwo(len(samples))

	frame := make([]float64, len(samples))
	copy(frame, samples)
	window.Apply(win, frame)

	in := make([]complex128, size)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: plan %d: %w", size, err)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: forward: %w", err)
	}

	return Spectrum{
		Power:      Power(out[:size/2+1]),
		FFTSize:    size,
		SampleRate: sampleRate,
		Frame:      len(samples),
		Window:     win,
	}, nil
}

// Bins returns the number of single-sided bins.
func (s Spectrum) Bins() int { return len(s.Power) }

// BinWidth returns the frequency spacing of adjacent bins in Hz.
func (s Spectrum) BinWidth() float64 {
	return s.SampleRate / float64(s.FFTSize)
}

// Frequency returns the center frequency of bin k in Hz.
func (s Spectrum) Frequency(k int) float64 {
	return float64(k) * s.BinWidth()
}

// Amplitude estimates the peak amplitude of a sinusoid centered on bin k,
// correcting for the window's coherent gain.
func (s Spectrum) Amplitude(k int) float64 {
	if k < 0 || k >= len(s.Power) {
		return 0
	}

	gain := window.CoherentGain(window.Generate(s.Window, s.Frame)) * float64(s.Frame)
	if gain == 0 {
		return 0
	}

	a := math.Sqrt(s.Power[k]) / gain
	if k != 0 && k != s.FFTSize/2 {
		a *= 2
	}

	return a
}

// Peak returns the strongest bin in [lo, hi).
func (s Spectrum) Peak(lo, hi int) int {
	lo = max(lo, 0)
	hi = min(hi, len(s.Power))

	best := lo
	for k := lo; k < hi; k++ {
		if s.Power[k] > s.Power[best] {
			best = k
		}
	}

	return best
}
