package main

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/dsp/dsm"
	"github.com/cwbudde/algo-testbench/dsp/filter/iir"
	"github.com/cwbudde/algo-testbench/dsp/waveform"
	"github.com/cwbudde/algo-testbench/stream"
)

// bench wires one example signal chain. build returns the streams to
// report, in display order.
type bench struct {
	description string
	fc          float64
	osr         int
	// halfPeriod samples at fc*2 instead of fc.
	halfPeriod bool
	kind       stream.Kind
	build      func(e *env) ([]*stream.Stream, error)
}

var benches = map[string]bench{
	"dsm": {
		description: "function generator into a delta-sigma modulator",
		fc:          60,
		osr:         32,
		kind:        stream.Float64,
		build:       buildDSM,
	},
	"filter": {
		description: "noisy tone through an exponential low-pass filter",
		fc:          1000,
		osr:         32,
		kind:        stream.Float64,
		build:       buildFilter,
	},
	"bridge": {
		description: "full-wave rectifier followed by a 25 Hz low-pass filter",
		fc:          60,
		osr:         128,
		kind:        stream.Float64,
		build:       buildBridge,
	},
	"multipole": {
		description: "int8 tone through a fixed-point three-pole filter",
		fc:          60,
		osr:         32,
		halfPeriod:  true,
		kind:        stream.Int8,
		build:       buildMultiPole,
	},
}

func benchNames() []string {
	names := make([]string, 0, len(benches))
	for name := range benches {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func buildDSM(e *env) ([]*stream.Stream, error) {
	in, gen, err := e.source("v(in)", e.shape)
	if err != nil {
		return nil, err
	}

	topo, err := dsm.ParseTopology(e.opts.topology)
	if err != nil {
		return nil, err
	}

	mod, err := dsm.New("v(out)", in, dsm.Config{Order: e.opts.order, Topology: topo}, e.blockOpts...)
	if err != nil {
		return nil, err
	}

	if err := e.start(gen); err != nil {
		return nil, err
	}

	out := mod.TestPoints().Streams()

	return append(out, mod.Result()), nil
}

func buildFilter(e *env) ([]*stream.Stream, error) {
	sig, gen, err := e.source("v(sig)", e.shape)
	if err != nil {
		return nil, err
	}

	noise, noiseGen, err := e.source("v(noise)", waveform.Random)
	if err != nil {
		return nil, err
	}

	sum, err := e.registry.Build(block.Spec{Type: "add", Name: "v(in)", Inputs: []*stream.Stream{sig, noise}}, e.blockOpts...)
	if err != nil {
		return nil, err
	}

	cutoff := stream.NewParameter("cutoff", e.cutoff(100))
	lp := iir.NewExponential("v(out)", sum.Result(), cutoff, e.blockOpts...)

	if err := e.start(gen); err != nil {
		return nil, err
	}

	if err := noiseGen.Update(0, e.amplitude(gen)/10); err != nil {
		return nil, err
	}

	return []*stream.Stream{sig, noise, sum.Result(), lp.Result()}, nil
}

func buildBridge(e *env) ([]*stream.Stream, error) {
	in, gen, err := e.source("v(in)", e.shape)
	if err != nil {
		return nil, err
	}

	rect, err := e.registry.Build(block.Spec{Type: "absolute", Name: "v(rect)", Inputs: []*stream.Stream{in}}, e.blockOpts...)
	if err != nil {
		return nil, err
	}

	lp, err := iir.New(iir.TypeFloatCutoff, "v(out)", rect.Result(), stream.NewParameter("cutoff", e.cutoff(25)), e.blockOpts...)
	if err != nil {
		return nil, err
	}

	if err := e.start(gen); err != nil {
		return nil, err
	}

	return []*stream.Stream{in, rect.Result(), lp.Result()}, nil
}

func buildMultiPole(e *env) ([]*stream.Stream, error) {
	in, gen, err := e.source("v(in)", e.shape)
	if err != nil {
		return nil, err
	}

	chain := []block.Spec{
		{Type: "cast", Name: "v(wide)", Kind: stream.Int16},
		{Type: "shift", Name: "v(scaled)", Count: 7},
	}

	prev := in

	for _, spec := range chain {
		spec.Inputs = []*stream.Stream{prev}

		n, err := e.registry.Build(spec, e.blockOpts...)
		if err != nil {
			return nil, err
		}

		prev = n.Result()
	}

	exponent := stream.NewParameter("exponent", float64(e.opts.exponent))
	poles := stream.NewParameter("poles", float64(e.opts.poles))
	filt := iir.NewMultiPole("v(filt)", prev, exponent, poles, e.blockOpts...)

	shr, err := e.registry.Build(block.Spec{Type: "shift", Name: "v(unscaled)", Count: -7, Inputs: []*stream.Stream{filt.Result()}}, e.blockOpts...)
	if err != nil {
		return nil, err
	}

	out, err := e.registry.Build(block.Spec{Type: "cast", Name: "v(out)", Kind: in.Kind(), Inputs: []*stream.Stream{shr.Result()}}, e.blockOpts...)
	if err != nil {
		return nil, err
	}

	if err := e.start(gen); err != nil {
		return nil, err
	}

	e.log.Debugf("multipole corner frequency %.3f Hz", filt.Stage(1).CornerFrequency())

	return []*stream.Stream{in, filt.Result(), out.Result()}, nil
}

func (b bench) String() string {
	return fmt.Sprintf("fc=%g osr=%d kind=%s: %s", b.fc, b.osr, b.kind, b.description)
}
