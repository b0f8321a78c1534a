package profile

import (
	"bytes"
	"context"
	"testing"

	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/memstore"
	"github.com/reallyasi9/stripes/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Context, *memstore.Store, *bytes.Buffer) {
	t.Helper()
	member := firestore.RosterMember{ID: "r1", UID: "u1", FirstName: "Jane", LastName: "Doe", Email: "old@example.com", PhoneNumber: "555-0100"}
	s, err := memstore.NewFromFixture(memstore.Fixture{Roster: []firestore.RosterMember{member}})
	require.NoError(t, err)
	out := new(bytes.Buffer)
	ctx := NewContext(context.Background())
	ctx.Service = assign.NewService(s, cache.NewMemory(), zerolog.Nop())
	ctx.Session = session.Session{Principal: auth.Principal{UID: "u1"}, Member: &member, Role: firestore.RoleUser}
	ctx.Out = out
	return ctx, s, out
}

func TestShowProfile(t *testing.T) {
	ctx, _, out := setup(t)
	require.NoError(t, ShowProfile(ctx))
	assert.Contains(t, out.String(), "Jane Doe")
	assert.Contains(t, out.String(), "Doe, Jane")
	assert.Contains(t, out.String(), "https://theahl.com/rules")

	ctx.Session.Member = nil
	assert.True(t, firestore.IsNotFound(ShowProfile(ctx)))
}

func TestUpdateProfile(t *testing.T) {
	ctx, s, _ := setup(t)
	assert.Error(t, UpdateProfile(ctx), "nothing to change")

	ctx.Phone = "555-0199"
	ctx.DryRun = true
	require.NoError(t, UpdateProfile(ctx))
	assert.Equal(t, 0, s.Writes())

	ctx.DryRun = false
	require.NoError(t, UpdateProfile(ctx))
	members, err := s.RosterByUID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "old@example.com", members[0].Email, "unchanged fields are kept")
	assert.Equal(t, "555-0199", members[0].PhoneNumber)
	assert.Equal(t, "555-0199", ctx.Session.Member.PhoneNumber)

	ctx.Email = "not an email"
	assert.Error(t, UpdateProfile(ctx))
}
