// Package time computes time-domain statistics of sample frames and
// streams.
package time

import (
	"math"

	"github.com/cwbudde/algo-testbench/dsp/core"
	"github.com/cwbudde/algo-testbench/stream"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length   int
	DC       float64 // mean
	RMS      float64
	Variance float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Peak     float64 // max(|max|, |min|)
	// PeakDBFS is the peak relative to the stream's full scale. Calculate
	// assumes a full scale of 1.
	PeakDBFS      float64
	CrestFactor   float64 // peak / RMS
	ZeroCrossings int
}

// Calculate computes all statistics in a single pass. The variance uses
// Welford's update.
func Calculate(signal []float64) Stats {
	return calculate(signal, 1)
}

// Of computes the statistics of a stream's current samples.
func Of(s *stream.Stream) Stats {
	return calculate(s.Samples(), s.FullScale())
}

func calculate(signal []float64, fullScale float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{PeakDBFS: math.Inf(-1)}
	}

	var (
		mean, m2, sumSq float64
		st              = Stats{Length: n, Max: signal[0], Min: signal[0]}
	)

	for i, x := range signal {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)

		sumSq += x * x

		if x > st.Max {
			st.Max, st.MaxPos = x, i
		}

		if x < st.Min {
			st.Min, st.MinPos = x, i
		}

		if i > 0 && signal[i-1]*x < 0 {
			st.ZeroCrossings++
		}
	}

	st.DC = mean
	st.Variance = m2 / float64(n)
	st.RMS = math.Sqrt(sumSq / float64(n))
	st.Peak = math.Max(math.Abs(st.Max), math.Abs(st.Min))
	st.PeakDBFS = core.DBFS(st.Peak, fullScale)

	if st.RMS > 0 {
		st.CrestFactor = st.Peak / st.RMS
	}

	return st
}

// RMS returns the root mean square of signal, or 0 when it is empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range signal {
		sum += x * x
	}

	return math.Sqrt(sum / float64(len(signal)))
}

// DC returns the mean of signal, or 0 when it is empty.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range signal {
		sum += x
	}

	return sum / float64(len(signal))
}

// Peak returns the largest absolute sample value.
func Peak(signal []float64) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}

	return peak
}

// ZeroCrossings counts sign changes between adjacent samples. Samples equal
// to zero do not count as a crossing.
func ZeroCrossings(signal []float64) int {
	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}
