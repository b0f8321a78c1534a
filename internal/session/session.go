// Package session ties the signed-in principal to their roster record and role.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/reallyasi9/stripes/internal/access"
	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/rs/zerolog"
)

// Store is what a session reads from the remote document store.
type Store interface {
	access.Store
}

// Session is the signed-in official.
type Session struct {
	Principal auth.Principal

	// Member is the principal's roster record, or nil if they have none.
	Member *firestore.RosterMember

	Role firestore.Role
}

// MatchName is the name the official appears under in schedule slots, or "" without a roster record.
func (s Session) MatchName() string {
	if s.Member == nil {
		return ""
	}
	return s.Member.MatchName()
}

// IsAdmin reports whether the session has the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == firestore.RoleAdmin
}

// Open looks up the principal's roster record and role with a single roster query.
func Open(ctx context.Context, store Store, gate *access.Gate, p auth.Principal) (Session, error) {
	s := Session{Principal: p, Role: firestore.RoleUser}
	members, err := store.RosterByUID(ctx, p.UID)
	if err != nil {
		return s, fmt.Errorf("Open: %w", err)
	}
	if len(members) > 0 {
		m := members[0]
		s.Member = &m
	}
	s.Role = gate.RoleFrom(p, members)
	return s, nil
}

// Manager keeps a Session in step with an auth.Provider.
type Manager struct {
	store Store
	gate  *access.Gate
	log   zerolog.Logger

	mu      sync.RWMutex
	current *Session
	err     error
	changes chan struct{}
}

// NewManager creates a Manager. Call Watch to start following a provider.
func NewManager(store Store, gate *access.Gate, log zerolog.Logger) *Manager {
	return &Manager{store: store, gate: gate, log: log, changes: make(chan struct{}, 1)}
}

// Watch subscribes to p. Every sign-in opens a new session and every sign-out clears it.
// The returned function stops watching.
func (m *Manager) Watch(ctx context.Context, p auth.Provider) func() {
	return p.Subscribe(func(principal *auth.Principal) {
		if principal == nil {
			m.set(nil, nil)
			m.log.Info().Msg("signed out")
			return
		}
		s, err := Open(ctx, m.store, m.gate, *principal)
		if err != nil {
			m.log.Error().Err(err).Str("uid", principal.UID).Msg("unable to open session")
			m.set(nil, err)
			return
		}
		m.log.Info().Str("uid", principal.UID).Str("role", string(s.Role)).Msg("signed in")
		m.set(&s, nil)
	})
}

// Current returns the active session. It returns auth.ErrSignedOut when nobody is signed in,
// or the error from the last failed sign-in.
func (m *Manager) Current() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return Session{}, m.err
	}
	if m.current == nil {
		return Session{}, auth.ErrSignedOut
	}
	return *m.current, nil
}

// Changes signals after the session changes. Signals coalesce.
func (m *Manager) Changes() <-chan struct{} {
	return m.changes
}

func (m *Manager) set(s *Session, err error) {
	m.mu.Lock()
	m.current = s
	m.err = err
	m.mu.Unlock()
	select {
	case m.changes <- struct{}{}:
	default:
	}
}
