// Package auth models the signed-in principal and the provider that reports it.
package auth

import (
	"errors"
	"sync"
)

// ErrSignedOut is returned when an operation needs a principal and nobody is signed in.
var ErrSignedOut = errors.New("no principal is signed in")

// Principal is an authenticated user.
type Principal struct {
	// UID is the provider's stable identifier. Roster records link to it.
	UID string

	// Email is optional.
	Email string
}

// Provider reports the current principal and changes to it.
type Provider interface {
	// Current returns the signed-in principal, if any.
	Current() (Principal, bool)

	// Subscribe calls fn with the current state and then on every change.
	// A nil principal means signed out. The returned function unsubscribes.
	Subscribe(fn func(*Principal)) func()

	// SignOut clears the current principal.
	SignOut()
}

// Local is an in-process Provider.
type Local struct {
	mu      sync.Mutex
	current *Principal
	nextID  int
	subs    map[int]func(*Principal)
}

// NewLocal creates a signed-out Local provider.
func NewLocal() *Local {
	return &Local{subs: make(map[int]func(*Principal))}
}

// SignIn replaces the current principal and notifies subscribers.
func (l *Local) SignIn(p Principal) {
	l.set(&p)
}

// SignOut implements Provider.
func (l *Local) SignOut() {
	l.set(nil)
}

// Current implements Provider.
func (l *Local) Current() (Principal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return Principal{}, false
	}
	return *l.current, true
}

// Subscribe implements Provider.
func (l *Local) Subscribe(fn func(*Principal)) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	cur := copyPrincipal(l.current)
	l.mu.Unlock()

	fn(cur)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

func (l *Local) set(p *Principal) {
	l.mu.Lock()
	l.current = p
	subs := make([]func(*Principal), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	// callbacks run outside the lock so they may call back into the provider
	for _, fn := range subs {
		fn(copyPrincipal(p))
	}
}

func copyPrincipal(p *Principal) *Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
