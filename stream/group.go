package stream

import (
	"slices"

	"github.com/cwbudde/algo-testbench/notify"
)

// Group is an ordered collection of streams, typically a block's test
// points. It notifies its own subscribers whenever a member changes.
type Group struct {
	name       string
	members    []*Stream
	subscribed map[*Stream]bool
	n          *notify.Notifier
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	g := &Group{name: name, subscribed: make(map[*Stream]bool)}
	g.n = notify.New(g)

	return g
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Subscribe registers fn to be called after any member changes.
func (g *Group) Subscribe(fn notify.Subscriber) { g.n.Subscribe(fn) }

// Notify re-emits a group-level change.
func (g *Group) Notify(payload ...notify.Source) error {
	return g.n.Notify(payload...)
}

// Append adds s to the group.
func (g *Group) Append(s *Stream) {
	g.members = append(g.members, s)

	if g.subscribed[s] {
		return
	}

	g.subscribed[s] = true
	s.Subscribe(func(notify.Source) error {
		if !g.Contains(s) {
			return nil
		}

		return g.n.Notify()
	})
}

// Reset removes all members.
func (g *Group) Reset() {
	g.members = g.members[:0]
}

// Contains reports whether s is a current member.
func (g *Group) Contains(s *Stream) bool {
	return slices.Contains(g.members, s)
}

// Len returns the number of members.
func (g *Group) Len() int { return len(g.members) }

// At returns the i-th member.
func (g *Group) At(i int) *Stream { return g.members[i] }

// Streams returns the members in insertion order.
func (g *Group) Streams() []*Stream {
	return slices.Clone(g.members)
}

// Names returns the member names in insertion order.
func (g *Group) Names() []string {
	names := make([]string, len(g.members))
	for i, s := range g.members {
		names[i] = s.Name()
	}

	return names
}
