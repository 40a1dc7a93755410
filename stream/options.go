package stream

import "fmt"

// Config defines the fixed shape of a stream.
type Config struct {
	DeltaT      float64
	SampleCount int
	OSR         int
	Kind        Kind
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a float stream of 2048 samples at 32x oversampling
// of a 60 Hz fundamental.
func DefaultConfig() Config {
	const (
		fc  = 60
		osr = 32
	)

	return Config{
		DeltaT:      1.0 / fc / osr,
		SampleCount: 2048,
		OSR:         osr,
		Kind:        Float64,
	}
}

// WithDeltaT sets the sample interval in seconds.
func WithDeltaT(dt float64) Option {
	return func(cfg *Config) {
		cfg.DeltaT = dt
	}
}

// WithSampleRate sets the sample interval from a rate in Hz.
func WithSampleRate(rate float64) Option {
	return func(cfg *Config) {
		if rate > 0 {
			cfg.DeltaT = 1 / rate
		}
	}
}

// WithSampleCount sets the number of samples.
func WithSampleCount(n int) Option {
	return func(cfg *Config) {
		cfg.SampleCount = n
	}
}

// WithOSR sets the oversampling ratio.
func WithOSR(osr int) Option {
	return func(cfg *Config) {
		cfg.OSR = osr
	}
}

// WithKind sets the sample representation.
func WithKind(k Kind) Option {
	return func(cfg *Config) {
		cfg.Kind = k
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case !(c.DeltaT > 0):
		return fmt.Errorf("%w: delta t must be > 0: %g", ErrInvalidConfig, c.DeltaT)
	case c.SampleCount <= 0:
		return fmt.Errorf("%w: sample count must be > 0: %d", ErrInvalidConfig, c.SampleCount)
	case c.OSR < 2:
		return fmt.Errorf("%w: oversampling ratio must be >= 2: %d", ErrInvalidConfig, c.OSR)
	case !c.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidConfig, uint8(c.Kind))
	}

	return nil
}
