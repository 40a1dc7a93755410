package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/graph"
	"github.com/cwbudde/algo-testbench/internal/log"
	"github.com/cwbudde/algo-testbench/metric"
	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// tracer sums its stream inputs and records every trigger.
type tracer struct {
	block.Base
	ins      []*stream.Stream
	triggers []string
}

func newTracer(name string, opts []block.Option, ins ...*stream.Stream) *tracer {
	srcs := make([]notify.Source, len(ins))
	for i, in := range ins {
		srcs[i] = in
	}

	t := &tracer{ins: ins}
	t.Base = block.NewBase(name, ins[0].Copy(name), srcs...)
	block.Attach(t, opts...)

	return t
}

func (t *tracer) Recompute(trigger notify.Source) (*stream.Stream, error) {
	t.triggers = append(t.triggers, trigger.Name())

	dst := t.Result().Samples()
	clear(dst)

	for _, in := range t.ins {
		for i, v := range in.Samples() {
			dst[i] += v
		}
	}

	return t.Result(), nil
}

type diamond struct {
	src        *stream.Stream
	b, c, d    *tracer
	sinkEvents int
}

// newDiamond builds src -> {b, c} -> d.
func newDiamond(t *testing.T, opts ...block.Option) *diamond {
	t.Helper()

	src := stream.MustNew("src", stream.WithSampleCount(4))
	copy(src.Samples(), []float64{1, 2, 3, 4})

	dm := &diamond{src: src}
	dm.b = newTracer("b", opts, src)
	dm.c = newTracer("c", opts, src)
	dm.d = newTracer("d", opts, dm.b.Result(), dm.c.Result())
	dm.d.Result().Subscribe(func(notify.Source) error {
		dm.sinkEvents++
		return nil
	})

	return dm
}

func TestDiamondImmediate(t *testing.T) {
	dm := newDiamond(t)

	require.NoError(t, dm.src.Notify())
	assert.Equal(t, []string{"b", "c"}, dm.d.triggers)
	assert.Equal(t, 2, dm.sinkEvents)
	assert.Equal(t, []float64{2, 4, 6, 8}, dm.d.Result().Samples())
}

func TestDiamondPerEdge(t *testing.T) {
	m := metric.New()
	g := graph.New(graph.WithLogger(log.Discard()), graph.WithMetric(m))
	dm := newDiamond(t, block.WithDispatcher(g))

	require.NoError(t, g.Build())
	assert.Equal(t, graph.PerEdge, g.Schedule())
	require.NoError(t, dm.src.Notify())

	assert.Equal(t, []string{"src"}, dm.b.triggers)
	assert.Equal(t, []string{"src"}, dm.c.triggers)
	assert.Equal(t, []string{"b", "c"}, dm.d.triggers)
	assert.Equal(t, 2, dm.sinkEvents)
	assert.Equal(t, []float64{2, 4, 6, 8}, dm.d.Result().Samples())

	id, ok := g.ID(dm.d)
	require.True(t, ok)
	c, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, int64(2), c.Recomputes)
	assert.Equal(t, int64(8), c.Samples)
	assert.Equal(t, "d", c.Name)
}

func TestDiamondCoalesced(t *testing.T) {
	g := graph.New(graph.WithSchedule(graph.Coalesced), graph.WithLogger(log.Discard()))
	dm := newDiamond(t, block.WithDispatcher(g))

	require.NoError(t, g.Build())
	require.NoError(t, dm.src.Notify())

	assert.Len(t, dm.d.triggers, 1)
	assert.Equal(t, 1, dm.sinkEvents)
	assert.Equal(t, []float64{2, 4, 6, 8}, dm.d.Result().Samples())

	copy(dm.src.Samples(), []float64{-1, 0, 1, 0})
	require.NoError(t, dm.src.Notify())
	assert.Equal(t, 2, dm.sinkEvents)
	assert.Equal(t, []float64{-2, 0, 2, 0}, dm.d.Result().Samples())
}

func TestBuildOrder(t *testing.T) {
	g := graph.New(graph.WithLogger(log.Discard()))
	opts := []block.Option{block.WithDispatcher(g)}

	src := stream.MustNew("src", stream.WithSampleCount(2))
	a := newTracer("a", opts, src)
	b := newTracer("b", opts, a.Result())
	c := newTracer("c", opts, b.Result(), src)

	assert.Empty(t, g.Order())
	require.NoError(t, g.Build())
	assert.Equal(t, 3, g.Len())

	var order []string
	for _, n := range g.Order() {
		order = append(order, n.Name())
	}

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Same(t, c.Result(), g.Order()[2].Result())
}

// tapped passes its input through and writes twice the input to a test
// point. The test points list the input first, as modulators do.
type tapped struct {
	block.Base
	in, tap *stream.Stream
	tp      *stream.Group
}

func newTapped(name string, opts []block.Option, in, tap *stream.Stream) *tapped {
	p := &tapped{in: in, tap: tap, tp: stream.NewGroup(name + " test points")}
	p.tp.Append(in)
	p.tp.Append(tap)
	p.Base = block.NewBase(name, in.Copy(name), in)
	block.Attach(p, opts...)

	return p
}

func (p *tapped) TestPoints() *stream.Group { return p.tp }

func (p *tapped) Recompute(notify.Source) (*stream.Stream, error) {
	for i, v := range p.in.Samples() {
		p.tap.Samples()[i] = 2 * v
	}

	if err := p.tap.Notify(); err != nil {
		return nil, err
	}

	copy(p.Result().Samples(), p.in.Samples())

	return p.Result(), nil
}

func TestBuildOrdersTestPointConsumers(t *testing.T) {
	for _, schedule := range []graph.Schedule{graph.PerEdge, graph.Coalesced} {
		t.Run(schedule.String(), func(t *testing.T) {
			g := graph.New(graph.WithSchedule(schedule), graph.WithLogger(log.Discard()))
			opts := []block.Option{block.WithDispatcher(g)}

			src := stream.MustNew("src", stream.WithSampleCount(3))
			copy(src.Samples(), []float64{1, 2, 3})
			tap := src.Copy("p/tap")

			// Both consumers register before the producer of the tap.
			c := newTracer("c", opts, tap)
			d := newTracer("d", opts, src)
			p := newTapped("p", opts, src, tap)

			require.NoError(t, g.Build())

			var order []string
			for _, n := range g.Order() {
				order = append(order, n.Name())
			}

			// p produces the tap read by c; sharing src with d is no edge.
			assert.Equal(t, []string{"d", "p", "c"}, order)

			require.NoError(t, src.Notify())
			assert.Equal(t, []string{"p/tap"}, c.triggers)
			assert.Equal(t, []float64{2, 4, 6}, c.Result().Samples())
			assert.Equal(t, []float64{1, 2, 3}, p.Result().Samples())
			assert.Equal(t, []float64{1, 2, 3}, d.Result().Samples())
		})
	}
}

// loop takes its input from a group so that a cycle can be closed after
// construction.
type loop struct {
	block.Base
}

func (l *loop) Recompute(notify.Source) (*stream.Stream, error) { return l.Result(), nil }

func newLoop(name string, in *stream.Group, g *graph.Graph) *loop {
	l := &loop{}
	l.Base = block.NewBase(name, stream.MustNew(name), in)
	block.Attach(l, block.WithDispatcher(g))

	return l
}

func TestBuildRejectsCycles(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		g := graph.New(graph.WithLogger(log.Discard()))
		grp := stream.NewGroup("feedback")
		l := newLoop("l", grp, g)
		grp.Append(l.Result())

		err := g.Build()
		require.ErrorIs(t, err, graph.ErrCycle)
		assert.Contains(t, err.Error(), "l")
	})

	t.Run("pair", func(t *testing.T) {
		g := graph.New(graph.WithLogger(log.Discard()))
		g1 := stream.NewGroup("g1")
		g2 := stream.NewGroup("g2")
		x := newLoop("x", g1, g)
		y := newLoop("y", g2, g)
		g1.Append(y.Result())
		g2.Append(x.Result())

		require.ErrorIs(t, g.Build(), graph.ErrCycle)

		err := x.Result().Notify()
		require.ErrorIs(t, err, graph.ErrNotBuilt)

		g1.Reset()
		require.NoError(t, g.Build())
		assert.Equal(t, "x", g.Order()[0].Name())
	})
}

func TestDispatchErrors(t *testing.T) {
	g := graph.New(graph.WithLogger(log.Discard()))
	src := stream.MustNew("src", stream.WithSampleCount(2))
	a := newTracer("a", []block.Option{block.WithDispatcher(g)}, src)

	require.ErrorIs(t, src.Notify(), graph.ErrNotBuilt)
	require.NoError(t, g.Build())

	other := newTracer("other", nil, src)
	require.ErrorIs(t, g.Dispatch(other, src), graph.ErrUnknownNode)

	// Registering a new node invalidates the order.
	g.Add(other)
	require.ErrorIs(t, g.Dispatch(a, src), graph.ErrNotBuilt)
	require.NoError(t, g.Build())
	require.NoError(t, g.Dispatch(other, src))
	assert.Equal(t, []string{"src"}, other.triggers)
}

type failing struct {
	block.Base
	err error
}

func (f *failing) Recompute(notify.Source) (*stream.Stream, error) { return nil, f.err }

func TestRecomputeErrorAbortsDrain(t *testing.T) {
	g := graph.New(graph.WithLogger(log.Discard()))
	opts := []block.Option{block.WithDispatcher(g)}
	src := stream.MustNew("src", stream.WithSampleCount(2))
	copy(src.Samples(), []float64{1, 1})

	errBoom := errors.New("boom")
	f := &failing{err: errBoom}
	f.Base = block.NewBase("f", src.Copy("f"), src)
	block.Attach(f, opts...)
	a := newTracer("a", opts, src)

	require.NoError(t, g.Build())

	err := src.Notify()
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, a.triggers)

	// The work list is empty again, so a direct dispatch only runs a.
	require.NoError(t, g.Dispatch(a, src))
	assert.Equal(t, []string{"src"}, a.triggers)
	assert.Equal(t, []float64{1, 1}, a.Result().Samples())
}

func TestParseSchedule(t *testing.T) {
	for _, s := range []graph.Schedule{graph.PerEdge, graph.Coalesced} {
		got, err := graph.ParseSchedule(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := graph.ParseSchedule("eager")
	require.Error(t, err)
	assert.Equal(t, "Schedule(7)", graph.Schedule(7).String())
}
