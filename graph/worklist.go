package graph

import (
	"time"

	"github.com/cwbudde/algo-testbench/notify"
)

var (
	now   = time.Now
	since = time.Since
)

type worklist interface {
	push(v *vertex, trigger notify.Source)
	pop() (*vertex, notify.Source, bool)
	clear()
}

type item struct {
	v       *vertex
	trigger notify.Source
}

// fifo keeps one item per notified edge.
type fifo struct {
	items []item
}

func (q *fifo) push(v *vertex, trigger notify.Source) {
	q.items = append(q.items, item{v: v, trigger: trigger})
}

func (q *fifo) pop() (*vertex, notify.Source, bool) {
	if len(q.items) == 0 {
		return nil, nil, false
	}

	it := q.items[0]
	q.items[0] = item{}
	q.items = q.items[1:]

	return it.v, it.trigger, true
}

func (q *fifo) clear() {
	q.items = nil
}

// dirtySet keeps each pending vertex once and releases the one earliest in
// topological order. The latest trigger wins.
type dirtySet struct {
	pending map[*vertex]notify.Source
}

func (d *dirtySet) push(v *vertex, trigger notify.Source) {
	d.pending[v] = trigger
}

func (d *dirtySet) pop() (*vertex, notify.Source, bool) {
	var next *vertex
	for v := range d.pending {
		if next == nil || v.index < next.index {
			next = v
		}
	}

	if next == nil {
		return nil, nil, false
	}

	trigger := d.pending[next]
	delete(d.pending, next)

	return next, trigger, true
}

func (d *dirtySet) clear() {
	clear(d.pending)
}
