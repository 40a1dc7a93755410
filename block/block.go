// Package block defines the processing-node contract of a test bench and
// the elementary arithmetic and conversion blocks.
//
// A block subscribes to its inputs at construction, allocates a zero-filled
// result stream and computes nothing until the first input notification.
// Every recompute fully overwrites the result; the configured [Dispatcher]
// then decides when the result's subscribers are told.
package block

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-testbench/notify"
	"github.com/cwbudde/algo-testbench/stream"
)

// ErrUnknownType is returned by registry lookups for unregistered names.
var ErrUnknownType = errors.New("block: unknown type")

// Node is a processing block.
type Node interface {
	Name() string
	Inputs() []notify.Source
	Result() *stream.Stream
	// Recompute overwrites the result from the current inputs. The trigger
	// is the input that changed; most blocks ignore it.
	Recompute(trigger notify.Source) (*stream.Stream, error)
}

// Prober is implemented by blocks exposing intermediate signals.
type Prober interface {
	TestPoints() *stream.Group
}

// Dispatcher decides how an input notification reaches a node.
type Dispatcher interface {
	Dispatch(n Node, trigger notify.Source) error
}

// Registrar is implemented by dispatchers that track the nodes attached
// to them.
type Registrar interface {
	Register(n Node)
}

// Router is implemented by dispatchers that subscribe to sources
// themselves, once per source, instead of once per attached node.
type Router interface {
	Route(n Node, src notify.Source)
}

type immediate struct{}

// Immediate recomputes the node and notifies its result before returning,
// so propagation is depth-first and follows every edge.
var Immediate Dispatcher = immediate{}

func (immediate) Dispatch(n Node, trigger notify.Source) error {
	out, err := n.Recompute(trigger)
	if err != nil {
		return fmt.Errorf("block %s: %w", n.Name(), err)
	}

	return out.Notify()
}

type config struct {
	dispatcher Dispatcher
}

// Option configures block construction.
type Option func(*config)

// WithDispatcher routes input notifications through d.
func WithDispatcher(d Dispatcher) Option {
	return func(c *config) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{dispatcher: Immediate}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Base carries the identity of a block. Embed it and implement Recompute.
type Base struct {
	name   string
	inputs []notify.Source
	result *stream.Stream
}

// NewBase returns a Base for a block producing result from inputs.
func NewBase(name string, result *stream.Stream, inputs ...notify.Source) Base {
	return Base{name: name, inputs: inputs, result: result}
}

// Name returns the block name.
func (b *Base) Name() string { return b.name }

// Inputs returns the observed sources in subscription order.
func (b *Base) Inputs() []notify.Source { return b.inputs }

// Result returns the output stream.
func (b *Base) Result() *stream.Stream { return b.result }

// Attach subscribes n to each of its inputs.
func Attach(n Node, opts ...Option) {
	cfg := applyOptions(opts)
	if r, ok := cfg.dispatcher.(Registrar); ok {
		r.Register(n)
	}

	if r, ok := cfg.dispatcher.(Router); ok {
		for _, in := range n.Inputs() {
			r.Route(n, in)
		}

		return
	}

	d := cfg.dispatcher
	for _, in := range n.Inputs() {
		in.Subscribe(func(src notify.Source) error {
			return d.Dispatch(n, src)
		})
	}
}

// checkOperands requires a and b to share shape and kind.
func checkOperands(name string, a, b *stream.Stream) error {
	if err := checkShape(name, a, b); err != nil {
		return err
	}

	if a.Kind() != b.Kind() {
		return fmt.Errorf("%w: %s: %s and %s differ", stream.ErrKind, name, a, b)
	}

	return nil
}

func checkShape(name string, streams ...*stream.Stream) error {
	for _, s := range streams[1:] {
		if !s.SameShape(streams[0]) {
			return fmt.Errorf("%w: %s: %s and %s differ", stream.ErrShape, name, streams[0], s)
		}
	}

	return nil
}
