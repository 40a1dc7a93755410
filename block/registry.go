package block

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-testbench/stream"
)

// Spec describes one block to be built by a Registry.
type Spec struct {
	Type   string
	Name   string
	Inputs []*stream.Stream
	// Count is the shift count of "shift" blocks.
	Count int
	// Kind is the target kind of "cast" blocks.
	Kind stream.Kind
}

// Factory builds one block from a spec.
type Factory func(spec Spec, opts ...Option) (Node, error)

// Registry maps block type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	errDuplicateType = errors.New("duplicate block type")
	errArity         = errors.New("wrong number of inputs")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the blocks of this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("invert", unary(func(s Spec, opts []Option) (Node, error) {
		return NewInvert(s.Name, s.Inputs[0], opts...), nil
	}))
	r.MustRegister("absolute", unary(func(s Spec, opts []Option) (Node, error) {
		return NewAbsolute(s.Name, s.Inputs[0], opts...), nil
	}))
	r.MustRegister("shift", unary(func(s Spec, opts []Option) (Node, error) {
		return NewShift(s.Name, s.Inputs[0], s.Count, opts...), nil
	}))
	r.MustRegister("cast", unary(func(s Spec, opts []Option) (Node, error) {
		return NewCast(s.Name, s.Inputs[0], s.Kind, opts...)
	}))
	r.MustRegister("add", binary(func(s Spec, opts []Option) (Node, error) {
		return NewAdd(s.Name, s.Inputs[0], s.Inputs[1], opts...)
	}))
	r.MustRegister("multiply", binary(func(s Spec, opts []Option) (Node, error) {
		return NewMultiply(s.Name, s.Inputs[0], s.Inputs[1], opts...)
	}))

	return r
}

// Register adds a factory for the given block type.
func (r *Registry) Register(blockType string, factory Factory) error {
	if blockType == "" {
		return errors.New("empty block type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[blockType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateType, blockType)
	}

	r.factories[blockType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(blockType string, factory Factory) {
	err := r.Register(blockType, factory)
	if err != nil {
		panic("block registry: " + err.Error())
	}
}

// Lookup returns the factory for the given block type, or nil.
func (r *Registry) Lookup(blockType string) Factory {
	return r.factories[blockType]
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Build constructs the block described by spec.
func (r *Registry) Build(spec Spec, opts ...Option) (Node, error) {
	factory := r.Lookup(spec.Type)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)
	}

	n, err := factory(spec, opts...)
	if err != nil {
		return nil, fmt.Errorf("block: build %s %q: %w", spec.Type, spec.Name, err)
	}

	return n, nil
}

func unary(build func(Spec, []Option) (Node, error)) Factory {
	return withArity(1, build)
}

func binary(build func(Spec, []Option) (Node, error)) Factory {
	return withArity(2, build)
}

func withArity(n int, build func(Spec, []Option) (Node, error)) Factory {
	return func(spec Spec, opts ...Option) (Node, error) {
		if len(spec.Inputs) != n {
			return nil, fmt.Errorf("%w: got %d, want %d", errArity, len(spec.Inputs), n)
		}

		return build(spec, opts)
	}
}
