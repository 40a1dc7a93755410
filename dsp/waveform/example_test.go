package waveform_test

import (
	"fmt"

	"github.com/cwbudde/algo-testbench/dsp/waveform"
	"github.com/cwbudde/algo-testbench/stream"
)

func ExampleGenerator_Generate() {
	s := stream.MustNew("v(in)", stream.WithSampleCount(8), stream.WithKind(stream.Int16))

	g, err := waveform.New(s, waveform.PulseRectangle, waveform.WithOffset(-1))
	if err != nil {
		panic(err)
	}

	if err := g.Generate(2, 1000); err != nil {
		panic(err)
	}

	fmt.Println(s.Samples())

	// Output:
	// [-1 -1 -1 999 999 -1 -1 -1]
}
