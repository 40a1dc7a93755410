package stream

import (
	"math"

	"github.com/cwbudde/algo-testbench/notify"
)

// Parameter is an observable scalar control value.
type Parameter struct {
	name  string
	value float64
	n     *notify.Notifier
}

// NewParameter creates a parameter with an initial value.
func NewParameter(name string, value float64) *Parameter {
	p := &Parameter{name: name, value: value}
	p.n = notify.New(p)

	return p
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Subscribe registers fn to be called after every change.
func (p *Parameter) Subscribe(fn notify.Subscriber) { p.n.Subscribe(fn) }

// Notify tells all subscribers that the value changed.
func (p *Parameter) Notify(payload ...notify.Source) error {
	return p.n.Notify(payload...)
}

// Value returns the current value.
func (p *Parameter) Value() float64 { return p.value }

// Int returns the value rounded to the nearest integer.
func (p *Parameter) Int() int { return int(math.Round(p.value)) }

// Set stores v and notifies subscribers. The returned error is the first
// error of the resulting cascade.
func (p *Parameter) Set(v float64) error {
	p.value = v
	return p.n.Notify()
}
