// Package notify implements synchronous change propagation between
// observable values.
//
// A [Notifier] belongs to exactly one [Source]. Subscribers are invoked in
// subscription order on the calling goroutine, so a cascade triggered by
// [Notifier.Notify] has fully completed when Notify returns.
package notify

import (
	"errors"
	"fmt"
)

// ErrInvalidNotification is returned when a source is notified with a
// payload other than itself.
var ErrInvalidNotification = errors.New("notify: payload is not the notifying source")

// Source is an observable value.
type Source interface {
	Name() string
	Subscribe(fn Subscriber)
}

// Subscriber is called with the source that changed. A non-nil error aborts
// the rest of the cascade.
type Subscriber func(src Source) error

// Notifier holds the ordered subscriber list of one source.
type Notifier struct {
	owner Source
	subs  []Subscriber
}

// New creates a notifier owned by src.
func New(owner Source) *Notifier {
	return &Notifier{owner: owner}
}

// Subscribe appends fn to the subscriber list. Duplicates are kept.
func (n *Notifier) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}

	n.subs = append(n.subs, fn)
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	return len(n.subs)
}

// Notify invokes every subscriber with the owner. The optional payload only
// exists to reject notifications issued on behalf of another source.
func (n *Notifier) Notify(payload ...Source) error {
	for _, p := range payload {
		if p != nil && p != n.owner {
			return fmt.Errorf("%w: %s notified with %s", ErrInvalidNotification, n.owner.Name(), p.Name())
		}
	}

	// Subscriptions added during the cascade take effect on the next notification.
	subs := n.subs[:len(n.subs):len(n.subs)]
	for _, fn := range subs {
		if err := fn(n.owner); err != nil {
			return err
		}
	}

	return nil
}
