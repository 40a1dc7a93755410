package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/dsp/core"
	"github.com/cwbudde/algo-testbench/dsp/waveform"
	"github.com/cwbudde/algo-testbench/graph"
	"github.com/cwbudde/algo-testbench/metric"
	"github.com/cwbudde/algo-testbench/stream"
)

// env carries what a bench needs to create its streams and blocks.
type env struct {
	opts      options
	template  stream.Config
	shape     waveform.Shape
	registry  *block.Registry
	graph     *graph.Graph
	metric    *metric.Metric
	blockOpts []block.Option
	log       logrus.FieldLogger
}

func newEnv(b bench, o options, logger logrus.FieldLogger) (*env, error) {
	fc, osr := b.fc, b.osr
	if o.fc > 0 {
		fc = o.fc
	}

	if o.osr > 0 {
		osr = o.osr
	}

	kind := b.kind
	if o.kind != "" {
		k, err := stream.ParseKind(o.kind)
		if err != nil {
			return nil, err
		}

		kind = k
	}

	rate := fc * float64(osr)
	if b.halfPeriod {
		rate *= 2
	}

	cfg := stream.ApplyOptions(
		stream.WithSampleRate(rate),
		stream.WithSampleCount(o.n),
		stream.WithOSR(osr),
		stream.WithKind(kind),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shape, err := waveform.ParseShape(o.shape)
	if err != nil {
		return nil, err
	}

	schedule, err := graph.ParseSchedule(o.schedule)
	if err != nil {
		return nil, err
	}

	m := metric.New()
	g := graph.New(graph.WithSchedule(schedule), graph.WithLogger(logger), graph.WithMetric(m))

	logger.WithFields(logrus.Fields{
		"fc":       fc,
		"osr":      osr,
		"kind":     kind.String(),
		"schedule": schedule.String(),
	}).Debug("bench configured")

	return &env{
		opts:      o,
		template:  cfg,
		shape:     shape,
		registry:  block.DefaultRegistry(),
		graph:     g,
		metric:    m,
		blockOpts: []block.Option{block.WithDispatcher(g)},
		log:       logger,
	}, nil
}

// source creates a stream shaped like the template and a generator that
// writes into it.
func (e *env) source(name string, shape waveform.Shape) (*stream.Stream, *waveform.Generator, error) {
	s, err := stream.FromConfig(name, e.template)
	if err != nil {
		return nil, nil, err
	}

	gen, err := waveform.New(s, shape, waveform.WithSeed(e.opts.seed))
	if err != nil {
		return nil, nil, err
	}

	return s, gen, nil
}

// start builds the graph and binds gen to its controls, which runs the
// chain once.
func (e *env) start(gen *waveform.Generator) error {
	if err := e.graph.Build(); err != nil {
		return err
	}

	control := stream.NewParameter("control", e.control(gen))
	amplitude := stream.NewParameter("amplitude", e.amplitude(gen))

	if err := gen.Bind(control, amplitude); err != nil {
		return fmt.Errorf("drive %s: %w", gen.Stream().Name(), err)
	}

	e.log.WithFields(logrus.Fields{
		"shape":     gen.Shape().String(),
		"control":   control.Value(),
		"amplitude": amplitude.Value(),
	}).Debug("source driven")

	return nil
}

// control returns the frequency or width flag, defaulting to 30% of the
// generator's limit. Frequencies are bounded by Nyquist, widths by the
// generator's maximum width.
func (e *env) control(gen *waveform.Generator) float64 {
	limit, def := gen.Stream().Nyquist(), 0.3*gen.MaxFrequency()
	if gen.Shape().IsPulse() {
		limit, def = gen.MaxWidth(), 0.3*gen.MaxWidth()
	}

	if e.opts.freq <= 0 {
		return def
	}

	v := core.Clamp(e.opts.freq, 0, limit)
	if v != e.opts.freq {
		e.log.WithFields(logrus.Fields{
			"requested": e.opts.freq,
			"limit":     limit,
		}).Warn("source control clamped")
	}

	return v
}

// amplitude returns the amplitude flag, defaulting to half of full scale.
func (e *env) amplitude(gen *waveform.Generator) float64 {
	if e.opts.amp > 0 {
		return e.opts.amp
	}

	return 0.5 * gen.MaxAmplitude()
}

func (e *env) cutoff(def float64) float64 {
	if e.opts.cutoff > 0 {
		return e.opts.cutoff
	}

	return def
}
