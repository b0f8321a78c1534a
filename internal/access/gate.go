// Package access decides whether a principal may see admin views or make admin changes.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/rs/zerolog"
)

// ErrAccessDenied is returned when a non-admin asks for an admin-only operation.
var ErrAccessDenied = errors.New("access denied: admin role required")

// Store is what the gate reads from the remote document store.
type Store interface {
	RosterByUID(ctx context.Context, uid string) ([]firestore.RosterMember, error)
}

// Gate resolves roles from the roster collection.
type Gate struct {
	store Store
	log   zerolog.Logger
}

// NewGate creates a Gate.
func NewGate(store Store, log zerolog.Logger) *Gate {
	return &Gate{store: store, log: log}
}

// RoleOf returns the principal's role. A principal with no roster record, or a record
// without an "admin" role, is a user. Store failures are returned as errors, never as a role.
func (g *Gate) RoleOf(ctx context.Context, p auth.Principal) (firestore.Role, error) {
	if p.UID == "" {
		return firestore.RoleUser, nil
	}
	members, err := g.store.RosterByUID(ctx, p.UID)
	if err != nil {
		return firestore.RoleUser, fmt.Errorf("RoleOf: %w", err)
	}
	return g.RoleFrom(p, members), nil
}

// RoleFrom is RoleOf for a caller that has already read the principal's roster records.
func (g *Gate) RoleFrom(p auth.Principal, members []firestore.RosterMember) firestore.Role {
	if len(members) == 0 {
		g.log.Debug().Str("uid", p.UID).Msg("principal has no roster record")
		return firestore.RoleUser
	}
	if len(members) > 1 {
		// more than one record for a login: only admin if every record agrees
		for _, m := range members {
			if m.Role.Normalize() != firestore.RoleAdmin {
				g.log.Warn().Str("uid", p.UID).Int("records", len(members)).Msg("conflicting roster records for principal")
				return firestore.RoleUser
			}
		}
	}
	return members[0].Role.Normalize()
}

// RequireAdmin returns ErrAccessDenied unless the principal is an admin.
func (g *Gate) RequireAdmin(ctx context.Context, p auth.Principal) error {
	role, err := g.RoleOf(ctx, p)
	if err != nil {
		return err
	}
	if role != firestore.RoleAdmin {
		return ErrAccessDenied
	}
	return nil
}
