// Package metric counts block recomputes per graph node.
package metric

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metric holds the meters of one graph.
type Metric struct {
	mu     sync.Mutex
	meters map[string]*Meter
	order  []string
}

// New creates an empty metric.
func New() *Metric {
	return &Metric{meters: make(map[string]*Meter)}
}

// Meter returns the meter for the node id, creating it on first use.
func (m *Metric) Meter(id, name string) *Meter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if meter, ok := m.meters[id]; ok {
		return meter
	}

	meter := &Meter{id: id, name: name}
	m.meters[id] = meter
	m.order = append(m.order, id)

	return meter
}

// Counters is a snapshot of one meter.
type Counters struct {
	ID         string
	Name       string
	Recomputes int64
	Samples    int64
	Last       time.Duration
	Total      time.Duration
}

// Get returns the counters of the node id.
func (m *Metric) Get(id string) (Counters, bool) {
	m.mu.Lock()
	meter, ok := m.meters[id]
	m.mu.Unlock()

	if !ok {
		return Counters{}, false
	}

	return meter.Counters(), true
}

// Measure returns the counters of all meters in creation order.
func (m *Metric) Measure() []Counters {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Counters, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.meters[id].Counters())
	}

	return out
}

// Meter captures the counters of one node.
type Meter struct {
	id         string
	name       string
	recomputes atomic.Int64
	samples    atomic.Int64
	last       atomic.Int64
	total      atomic.Int64
}

// Recompute records one recompute over n samples that took elapsed.
func (m *Meter) Recompute(n int, elapsed time.Duration) {
	m.recomputes.Add(1)
	m.samples.Add(int64(n))
	m.last.Store(int64(elapsed))
	m.total.Add(int64(elapsed))
}

// Counters returns a snapshot of the meter.
func (m *Meter) Counters() Counters {
	return Counters{
		ID:         m.id,
		Name:       m.name,
		Recomputes: m.recomputes.Load(),
		Samples:    m.samples.Load(),
		Last:       time.Duration(m.last.Load()),
		Total:      time.Duration(m.total.Load()),
	}
}
