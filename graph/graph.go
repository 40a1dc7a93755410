// Package graph schedules block recomputes over a topologically sorted
// dependency graph.
//
// A Graph is a block.Dispatcher. Blocks constructed with
// block.WithDispatcher(g) are registered automatically and the graph
// subscribes to their inputs once per source. After [Graph.Build] a source
// notification enqueues all dependent blocks instead of recomputing them
// immediately, and the outermost notification drains the work list
// iteratively.
// Build rejects cyclic graphs, which would otherwise recurse forever.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-testbench/block"
	"github.com/cwbudde/algo-testbench/internal/log"
	"github.com/cwbudde/algo-testbench/metric"
	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

var (
	// ErrCycle is returned by Build when the dependency graph is cyclic.
	ErrCycle = errors.New("graph: contains cycle")
	// ErrNotBuilt is returned when a node is dispatched before Build.
	ErrNotBuilt = errors.New("graph: not built")
	// ErrUnknownNode is returned when a node was never registered.
	ErrUnknownNode = errors.New("graph: unknown node")
)

// Schedule selects how pending recomputes are ordered.
type Schedule int

const (
	// PerEdge recomputes a node once per notified input edge, in FIFO order.
	PerEdge Schedule = iota
	// Coalesced recomputes every dirty node once, in topological order.
	Coalesced
)

var scheduleNames = map[Schedule]string{
	PerEdge:   "per-edge",
	Coalesced: "coalesced",
}

func (s Schedule) String() string {
	if name, ok := scheduleNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Schedule(%d)", int(s))
}

// ParseSchedule resolves a schedule by name.
func ParseSchedule(name string) (Schedule, error) {
	for s, n := range scheduleNames {
		if n == name {
			return s, nil
		}
	}

	return 0, fmt.Errorf("graph: unknown schedule %q", name)
}

type config struct {
	schedule Schedule
	logger   logrus.FieldLogger
	metric   *metric.Metric
}

// Option configures a Graph.
type Option func(*config)

// WithSchedule sets the recompute schedule.
func WithSchedule(s Schedule) Option {
	return func(c *config) {
		c.schedule = s
	}
}

// WithLogger sets the logger used for build and drain diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetric records per-node recompute counters into m.
func WithMetric(m *metric.Metric) Option {
	return func(c *config) {
		c.metric = m
	}
}

type vertex struct {
	id    xid.ID
	node  block.Node
	index int
	out   []*vertex
	meter *metric.Meter
}

// Graph is a block dispatcher with a precomputed evaluation order.
type Graph struct {
	cfg      config
	vertices []*vertex
	byNode   map[block.Node]*vertex
	routes   map[notify.Source][]*vertex
	order    []*vertex
	built    bool
	draining bool
	work     worklist
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	cfg := config{schedule: PerEdge}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.logger == nil {
		cfg.logger = log.GetLogger()
	}

	g := &Graph{
		cfg:    cfg,
		byNode: make(map[block.Node]*vertex),
		routes: make(map[notify.Source][]*vertex),
	}

	switch cfg.schedule {
	case Coalesced:
		g.work = &dirtySet{pending: make(map[*vertex]notify.Source)}
	default:
		g.work = &fifo{}
	}

	return g
}

// Schedule returns the configured schedule.
func (g *Graph) Schedule() Schedule { return g.cfg.schedule }

// Register adds n to the graph. Registering invalidates a previous Build.
func (g *Graph) Register(n block.Node) {
	if _, ok := g.byNode[n]; ok {
		return
	}

	v := &vertex{id: xid.New(), node: n, index: -1}
	if g.cfg.metric != nil {
		v.meter = g.cfg.metric.Meter(v.id.String(), n.Name())
	}

	g.vertices = append(g.vertices, v)
	g.byNode[n] = v
	g.built = false
}

// Route implements block.Router. The graph subscribes to src once and
// enqueues every node routed from it when src notifies.
func (g *Graph) Route(n block.Node, src notify.Source) {
	g.Register(n)

	v := g.byNode[n]
	if slices.Contains(g.routes[src], v) {
		return
	}

	if _, ok := g.routes[src]; !ok {
		src.Subscribe(g.fanout)
	}

	g.routes[src] = append(g.routes[src], v)
}

// Add registers nodes that were not built with this graph as dispatcher.
// Their notifications still reach them directly.
func (g *Graph) Add(nodes ...block.Node) {
	for _, n := range nodes {
		g.Register(n)
	}
}

// Len returns the number of registered nodes.
func (g *Graph) Len() int { return len(g.vertices) }

// ID returns the identifier assigned to n.
func (g *Graph) ID(n block.Node) (string, bool) {
	v, ok := g.byNode[n]
	if !ok {
		return "", false
	}

	return v.id.String(), true
}

// Order returns the nodes in evaluation order. It is empty before Build.
func (g *Graph) Order() []block.Node {
	out := make([]block.Node, len(g.order))
	for i, v := range g.order {
		out[i] = v.node
	}

	return out
}

// Build derives the edges between registered nodes and computes a
// topological order (Kahn's algorithm).
func (g *Graph) Build() error {
	for _, v := range g.vertices {
		v.out = v.out[:0]
		v.index = -1
	}

	indegree := make(map[*vertex]int, len(g.vertices))
	for _, to := range g.vertices {
		indegree[to] += 0

		for _, from := range g.vertices {
			if feeds(from.node, to.node) {
				from.out = append(from.out, to)
				indegree[to]++
			}
		}
	}

	queue := make([]*vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		if indegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	order := make([]*vertex, 0, len(g.vertices))
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		v.index = len(order)
		order = append(order, v)

		for _, to := range v.out {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(order) != len(g.vertices) {
		g.order = nil
		g.built = false

		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(unresolved(g.vertices), ", "))
	}

	g.order = order
	g.built = true

	g.cfg.logger.WithFields(logrus.Fields{
		"nodes":    len(order),
		"schedule": g.cfg.schedule.String(),
	}).Debugf("graph built: %s", strings.Join(names(order), " -> "))

	return nil
}

// Dispatch implements block.Dispatcher.
func (g *Graph) Dispatch(n block.Node, trigger notify.Source) error {
	if !g.built {
		return fmt.Errorf("%w: dispatch %s", ErrNotBuilt, n.Name())
	}

	v, ok := g.byNode[n]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, n.Name())
	}

	g.work.push(v, trigger)
	if g.draining {
		return nil
	}

	return g.drain()
}

func (g *Graph) fanout(src notify.Source) error {
	if !g.built {
		return fmt.Errorf("%w: notify %s", ErrNotBuilt, src.Name())
	}

	for _, v := range g.routes[src] {
		g.work.push(v, src)
	}

	if g.draining {
		return nil
	}

	return g.drain()
}

func (g *Graph) drain() error {
	g.draining = true
	defer func() { g.draining = false }()

	for {
		v, trigger, ok := g.work.pop()
		if !ok {
			return nil
		}

		if err := g.recompute(v, trigger); err != nil {
			g.work.clear()
			return err
		}
	}
}

func (g *Graph) recompute(v *vertex, trigger notify.Source) error {
	entry := g.cfg.logger.WithFields(logrus.Fields{
		"node": v.node.Name(),
		"id":   v.id.String(),
	})

	start := now()

	out, err := v.node.Recompute(trigger)
	if err != nil {
		entry.WithError(err).Debug("recompute failed")
		return fmt.Errorf("graph: recompute %s: %w", v.node.Name(), err)
	}

	if v.meter != nil {
		v.meter.Recompute(out.Len(), since(start))
	}

	entry.Debug("recomputed")

	return out.Notify()
}

// feeds reports whether to consumes the result of from, one of the test
// points from produces, or the test point group itself.
func feeds(from, to block.Node) bool {
	result := from.Result()

	var probes *stream.Group
	if p, ok := from.(block.Prober); ok {
		probes = p.TestPoints()
	}

	for _, in := range to.Inputs() {
		switch src := in.(type) {
		case *stream.Stream:
			if src == result || produces(from, probes, src) {
				return true
			}
		case *stream.Group:
			if src == probes || src.Contains(result) {
				return true
			}
		}
	}

	return false
}

// produces reports whether s is a test point written by n. Inputs listed
// among the test points belong to their own producers.
func produces(n block.Node, probes *stream.Group, s *stream.Stream) bool {
	if probes == nil || !probes.Contains(s) {
		return false
	}

	for _, in := range n.Inputs() {
		if src, ok := in.(*stream.Stream); ok && src == s {
			return false
		}
	}

	return true
}

func unresolved(vertices []*vertex) []string {
	var out []string
	for _, v := range vertices {
		if v.index < 0 {
			out = append(out, v.node.Name())
		}
	}

	slices.Sort(out)

	return out
}

func names(order []*vertex) []string {
	out := make([]string, len(order))
	for i, v := range order {
		out[i] = v.node.Name()
	}

	return out
}
