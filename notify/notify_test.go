package notify_test

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-testbench/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type value struct {
	name string
	n    *notify.Notifier
}

func newValue(name string) *value {
	v := &value{name: name}
	v.n = notify.New(v)
	return v
}

func (v *value) Name() string                   { return v.name }
func (v *value) Subscribe(fn notify.Subscriber) { v.n.Subscribe(fn) }

func TestNotifyOrder(t *testing.T) {
	t.Parallel()

	v := newValue("a")

	var got []int
	for i := range 3 {
		v.Subscribe(func(src notify.Source) error {
			assert.Equal(t, "a", src.Name())
			got = append(got, i)
			return nil
		})
	}

	require.NoError(t, v.n.Notify())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 3, v.n.Len())
}

func TestNotifyDuplicateSubscription(t *testing.T) {
	t.Parallel()

	v := newValue("a")
	calls := 0
	fn := func(notify.Source) error {
		calls++
		return nil
	}
	v.Subscribe(fn)
	v.Subscribe(fn)
	v.Subscribe(nil)

	require.NoError(t, v.n.Notify())
	assert.Equal(t, 2, calls)
}

func TestNotifyPayload(t *testing.T) {
	t.Parallel()

	a := newValue("a")
	b := newValue("b")

	called := false
	a.Subscribe(func(notify.Source) error {
		called = true
		return nil
	})

	err := a.n.Notify(b)
	require.ErrorIs(t, err, notify.ErrInvalidNotification)
	assert.False(t, called, "subscribers must not run on a rejected notification")

	require.NoError(t, a.n.Notify(a))
	assert.True(t, called)
}

func TestNotifyDepthFirst(t *testing.T) {
	t.Parallel()

	a := newValue("a")
	b := newValue("b")

	var trace []string
	a.Subscribe(func(notify.Source) error {
		trace = append(trace, "a->b")
		return b.n.Notify()
	})
	a.Subscribe(func(notify.Source) error {
		trace = append(trace, "a->c")
		return nil
	})
	b.Subscribe(func(notify.Source) error {
		trace = append(trace, "b->d")
		return nil
	})

	require.NoError(t, a.n.Notify())
	assert.Equal(t, []string{"a->b", "b->d", "a->c"}, trace)
}

func TestNotifyAbort(t *testing.T) {
	t.Parallel()

	a := newValue("a")
	errBoom := errors.New("boom")
	second := false

	a.Subscribe(func(notify.Source) error { return errBoom })
	a.Subscribe(func(notify.Source) error {
		second = true
		return nil
	})

	require.ErrorIs(t, a.n.Notify(), errBoom)
	assert.False(t, second)
}

func TestSubscribeDuringNotify(t *testing.T) {
	t.Parallel()

	a := newValue("a")
	late := 0
	a.Subscribe(func(notify.Source) error {
		a.Subscribe(func(notify.Source) error {
			late++
			return nil
		})
		return nil
	})

	require.NoError(t, a.n.Notify())
	assert.Equal(t, 0, late)
	require.NoError(t, a.n.Notify())
	assert.Equal(t, 1, late)
}
