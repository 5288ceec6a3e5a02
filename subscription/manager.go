package subscription

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	pathstore "github.com/reoring/pathstore"
)

// Token identifies a subscription for Unsubscribe.
type Token int

// Callback is invoked once per matching Event, off the caller's goroutine.
type Callback func(Event)

type subscriber struct {
	path   string
	scoped bool
	cb     Callback
}

// Manager tracks subscribers and fans change events out to them.
//
// Triggers return immediately; callbacks run asynchronously. Notifications
// requested from one Manager complete in the order they were requested, so
// a subscriber never observes changes out of order.
type Manager struct {
	mu   sync.Mutex
	next Token
	subs map[Token]subscriber
	tail chan struct{}
	log  logrus.FieldLogger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report panicking callbacks.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{subs: map[Token]subscriber{}, log: logrus.StandardLogger()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Subscribe registers cb for every change.
func (m *Manager) Subscribe(cb Callback) Token {
	return m.add(subscriber{cb: cb})
}

// SubscribePath registers cb for changes that overlap path: the path itself,
// its ancestors and its descendants.
func (m *Manager) SubscribePath(path string, cb Callback) Token {
	return m.add(subscriber{path: path, scoped: true, cb: cb})
}

func (m *Manager) add(s subscriber) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok := m.next
	m.subs[tok] = s
	m.next++
	return tok
}

// Unsubscribe removes a subscription. It reports whether tok was active.
func (m *Manager) Unsubscribe(tok Token) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[tok]
	delete(m.subs, tok)
	return ok
}

// Len returns the number of active subscriptions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// TriggerAllSubscribers notifies every subscriber.
func (m *Manager) TriggerAllSubscribers() *Notification {
	return m.dispatch(Event{ID: uuid.New(), All: true})
}

// TriggerSubscribersForAttr notifies subscribers interested in path.
func (m *Manager) TriggerSubscribersForAttr(path string) *Notification {
	return m.dispatch(Event{ID: uuid.New(), Paths: []string{path}})
}

// TriggerSubscribersForMultipleAttrs notifies subscribers interested in any
// of paths. With no paths it returns a resolved notification.
func (m *Manager) TriggerSubscribersForMultipleAttrs(paths []string) *Notification {
	if len(paths) == 0 {
		return Resolved()
	}
	return m.dispatch(Event{ID: uuid.New(), Paths: append([]string(nil), paths...)})
}

func (m *Manager) dispatch(ev Event) *Notification {
	n := newNotification(ev)

	m.mu.Lock()
	targets := m.matching(ev)
	prev := m.tail
	m.tail = n.done
	m.mu.Unlock()

	go func() {
		if prev != nil {
			<-prev
		}
		for _, cb := range targets {
			m.call(cb, ev)
		}
		close(n.done)
	}()
	return n
}

// matching returns the callbacks for ev in subscription order. Callers hold mu.
func (m *Manager) matching(ev Event) []Callback {
	toks := make([]int, 0, len(m.subs))
	for tok := range m.subs {
		toks = append(toks, int(tok))
	}
	sort.Ints(toks)
	out := make([]Callback, 0, len(toks))
	for _, tok := range toks {
		s := m.subs[Token(tok)]
		if ev.All || !s.scoped || overlapsAny(s.path, ev.Paths) {
			out = append(out, s.cb)
		}
	}
	return out
}

func overlapsAny(path string, changed []string) bool {
	for _, c := range changed {
		if pathstore.PathsOverlap(path, c) {
			return true
		}
	}
	return false
}

func (m *Manager) call(cb Callback, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.WithFields(logrus.Fields{"event": ev.ID.String(), "panic": r}).Error("subscriber callback panicked")
		}
	}()
	cb(ev)
}
