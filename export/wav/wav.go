// Package wav writes streams to PCM WAV files and reads them back.
//
// Each stream becomes one channel. Samples are normalized by the stream's
// full scale, so float streams map [-1, 1] and integer streams map their
// representable range onto the target bit depth.
package wav

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-testbench/stream"
)

const pcmFormat = 1

var (
	// ErrUnsupportedBitDepth is returned for depths other than 16, 24 and 32.
	ErrUnsupportedBitDepth = errors.New("wav: only 16, 24 and 32 bit depth is supported")
	// ErrNoStreams is returned when there is nothing to write.
	ErrNoStreams = errors.New("wav: no streams")
	// ErrInvalidFile is returned when the decoder rejects the input.
	ErrInvalidFile = errors.New("wav: invalid file")
)

type config struct {
	bitDepth int
}

// Option configures Write.
type Option func(*config)

// WithBitDepth sets the PCM sample width. The default is 16.
func WithBitDepth(bits int) Option {
	return func(c *config) {
		c.bitDepth = bits
	}
}

// Write encodes streams as interleaved PCM channels. All streams must share
// the same shape.
func Write(w io.WriteSeeker, streams []*stream.Stream, opts ...Option) error {
	cfg := config{bitDepth: 16}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.bitDepth != 16 && cfg.bitDepth != 24 && cfg.bitDepth != 32 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, cfg.bitDepth)
	}

	if len(streams) == 0 {
		return ErrNoStreams
	}

	first := streams[0]
	for _, s := range streams[1:] {
		if !s.SameShape(first) {
			return fmt.Errorf("wav: %w: %s does not match %s", stream.ErrShape, s, first)
		}
	}

	channels := len(streams)
	rate := int(math.Round(first.SampleRate()))
	peak := math.Ldexp(1, cfg.bitDepth-1) - 1

	data := make([]int, first.Len()*channels)
	for c, s := range streams {
		for i, v := range s.Samples() {
			data[i*channels+c] = int(math.Round(normalize(v, s.Kind()) * peak))
		}
	}

	enc := wav.NewEncoder(w, rate, cfg.bitDepth, channels, pcmFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  rate,
		},
		Data:           data,
		SourceBitDepth: cfg.bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: write: %w", err)
	}

	return enc.Close()
}

// WriteFile creates path and writes streams into it.
func WriteFile(path string, streams []*stream.Stream, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, streams, opts...); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Recording is a decoded WAV file with channels normalized to [-1, 1).
type Recording struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Read decodes a PCM WAV file.
func Read(r io.ReadSeeker) (Recording, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Recording{}, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Recording{}, fmt.Errorf("wav: read: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return Recording{}, ErrInvalidFile
	}

	scale := math.Ldexp(1, int(dec.BitDepth)-1)
	frames := len(buf.Data) / channels

	rec := Recording{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   make([][]float64, channels),
	}

	for c := range rec.Channels {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = float64(buf.Data[i*channels+c]) / scale
		}

		rec.Channels[c] = ch
	}

	return rec, nil
}

// normalize maps a sample of kind k onto [-1, 1]. Unsigned kinds are
// centered on half their full scale.
func normalize(v float64, k stream.Kind) float64 {
	fs := k.FullScale()
	if !k.IsSigned() {
		half := fs / 2
		return clamp((v - half) / half)
	}

	return clamp(v / fs)
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
