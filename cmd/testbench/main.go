// Command testbench runs example signal chains and prints per-stream
// statistics.
//
// Usage:
//
//	testbench [flags] <bench>
//
// Each bench builds its streams and blocks on a graph scheduler, drives
// the chain once from a function generator and reports the time-domain
// statistics and baseband SNR of every stream it exposes.
//
// Examples:
//
//	testbench dsm
//	testbench -order 2 -topology mash dsm
//	testbench -cutoff 250 -schedule coalesced filter
//	testbench -exponent 4 -poles 2 -wav multipole.wav multipole
//	testbench -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/dsp/waveform"
	"github.com/cwbudde/algo-testbench/dsp/window"
	"github.com/cwbudde/algo-testbench/export/wav"
	"github.com/cwbudde/algo-testbench/graph"
	"github.com/cwbudde/algo-testbench/internal/log"
	"github.com/cwbudde/algo-testbench/measure/snr"
	"github.com/cwbudde/algo-testbench/metric"
	timestats "github.com/cwbudde/algo-testbench/stats/time"
	"github.com/cwbudde/algo-testbench/stream"
)

var errUsage = errors.New("usage")

type options struct {
	fc       float64
	osr      int
	n        int
	kind     string
	shape    string
	freq     float64
	amp      float64
	order    int
	topology string
	cutoff   float64
	exponent int
	poles    int
	schedule string
	window   string
	seed     int64
	debug    bool
	list     bool
	wav      string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("testbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Float64Var(&o.fc, "fc", 0, "frequency of interest in Hz (0 uses the bench default)")
	fs.IntVar(&o.osr, "osr", 0, "oversampling ratio (0 uses the bench default)")
	fs.IntVar(&o.n, "n", 2048, "samples per stream")
	fs.StringVar(&o.kind, "kind", "", "source sample kind (empty uses the bench default)")
	fs.StringVar(&o.shape, "shape", "sine", "source waveform shape")
	fs.Float64Var(&o.freq, "freq", 0, "source frequency in Hz, or pulse width (0 derives it from the stream)")
	fs.Float64Var(&o.amp, "amp", 0, "source amplitude (0 uses half of full scale)")
	fs.IntVar(&o.order, "order", 1, "delta-sigma modulator order (1 or 2)")
	fs.StringVar(&o.topology, "topology", "direct", "delta-sigma topology (direct or mash)")
	fs.Float64Var(&o.cutoff, "cutoff", 0, "low-pass cutoff in Hz (0 uses the bench default)")
	fs.IntVar(&o.exponent, "exponent", 3, "multi-pole window exponent")
	fs.IntVar(&o.poles, "poles", 3, "multi-pole pole count (0 to 3)")
	fs.StringVar(&o.schedule, "schedule", graph.PerEdge.String(), "graph schedule (per-edge or coalesced)")
	fs.StringVar(&o.window, "window", window.TypeRectangular.String(), "SNR analysis window")
	fs.Int64Var(&o.seed, "seed", 1, "seed of the random shape")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&o.list, "list", false, "list available benches, shapes, block types, kinds and windows")
	fs.StringVar(&o.wav, "wav", "", "write the reported streams to this WAV file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: testbench [flags] <bench>\n\n")
		fmt.Fprintf(stderr, "Runs an example signal chain and reports every stream it exposes.\n\n")
		fmt.Fprintf(stderr, "Benches: %s\n\n", strings.Join(benchNames(), ", "))
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	return fs
}

func run(args []string, stdout, stderr io.Writer) error {
	var o options

	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if o.list {
		return printList(stdout)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	b, ok := benches[fs.Arg(0)]
	if !ok {
		return fmt.Errorf("unknown bench %q (use -list to see available)", fs.Arg(0))
	}

	win, err := window.ParseType(o.window)
	if err != nil {
		return err
	}

	logger := log.GetLogger()
	logger.SetOutput(stderr)

	if o.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	e, err := newEnv(b, o, logger.WithField("bench", fs.Arg(0)))
	if err != nil {
		return err
	}

	streams, err := b.build(e)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	if err := printReport(stdout, streams, win); err != nil {
		return err
	}

	if err := printCounters(stdout, e.metric); err != nil {
		return err
	}

	if o.wav != "" {
		if err := wav.WriteFile(o.wav, streams); err != nil {
			return err
		}

		e.log.WithField("path", o.wav).Info("wrote wav")
	}

	return nil
}

func printList(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range benchNames() {
		fmt.Fprintf(tw, "bench\t%s\t%s\n", name, benches[name])
	}

	for _, s := range waveform.Shapes() {
		fmt.Fprintf(tw, "shape\t%s\t\n", s)
	}

	for _, t := range block.DefaultRegistry().Types() {
		fmt.Fprintf(tw, "block\t%s\t\n", t)
	}

	for _, k := range stream.Kinds() {
		fmt.Fprintf(tw, "kind\t%s\t\n", k)
	}

	for _, t := range window.Types() {
		fmt.Fprintf(tw, "window\t%s\t\n", t)
	}

	return tw.Flush()
}

func printReport(w io.Writer, streams []*stream.Stream, win window.Type) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stream\tKind\tDC\tRMS\tPeak\tPeak [dBFS]\tZC\tSignal [Hz]\tBW [Hz]\tSNR [dB]\n")
	fmt.Fprintf(tw, "------\t----\t--\t---\t----\t-----------\t--\t-----------\t-------\t--------\n")

	for _, s := range streams {
		st := timestats.Of(s)

		res, err := snr.Analyze(s, snr.WithWindow(win), snr.WithoutDC())
		if err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}

		fmt.Fprintf(tw, "%s\t%s\t%.4g\t%.4g\t%.4g\t%.2f\t%d\t%.3f\t%.3f\t%.2f\n",
			s.Name(), s.Kind(), st.DC, st.RMS, st.Peak, st.PeakDBFS, st.ZeroCrossings,
			res.SignalFrequency, res.Bandwidth, res.SNR)
	}

	return tw.Flush()
}

func printCounters(w io.Writer, m *metric.Metric) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nNode\tRecomputes\tSamples\tTime\n")
	fmt.Fprintf(tw, "----\t----------\t-------\t----\n")

	for _, c := range m.Measure() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.Name, c.Recomputes, c.Samples, c.Total)
	}

	return tw.Flush()
}
