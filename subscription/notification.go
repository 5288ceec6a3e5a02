package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Event describes one change delivered to subscribers.
type Event struct {
	ID    uuid.UUID
	Paths []string // changed paths; empty when All is set
	All   bool     // every subscriber is notified regardless of path
}

// Notification represents the eventual completion of every callback
// interested in one Event. A nil *Notification is already resolved.
type Notification struct {
	ev   Event
	done chan struct{}
}

var resolved = func() *Notification {
	n := &Notification{done: make(chan struct{})}
	close(n.done)
	return n
}()

// Resolved returns a notification that has already completed and carries no
// paths.
func Resolved() *Notification { return resolved }

func newNotification(ev Event) *Notification {
	return &Notification{ev: ev, done: make(chan struct{})}
}

// ID identifies the change, for correlating logs.
func (n *Notification) ID() uuid.UUID {
	if n == nil {
		return uuid.Nil
	}
	return n.ev.ID
}

// Paths returns the changed paths the notification was scoped to.
func (n *Notification) Paths() []string {
	if n == nil {
		return nil
	}
	return append([]string(nil), n.ev.Paths...)
}

// All reports whether the notification targeted every subscriber.
func (n *Notification) All() bool { return n != nil && n.ev.All }

// Done is closed once every callback has returned.
func (n *Notification) Done() <-chan struct{} {
	if n == nil {
		return resolved.done
	}
	return n.done
}

// Wait blocks until the callbacks have run or ctx ends.
func (n *Notification) Wait(ctx context.Context) error {
	select {
	case <-n.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Completed reports whether the callbacks have already run.
func (n *Notification) Completed() bool {
	select {
	case <-n.Done():
		return true
	default:
		return false
	}
}
