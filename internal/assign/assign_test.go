package assign

import (
	"context"
	"errors"
	"testing"

	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/memstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var g1 = firestore.ScheduleEntry{
	ID:           "g1",
	GameID:       "12-345",
	AwayTeam:     "Hershey",
	HomeTeam:     "Providence",
	Referee1:     "Jane Doe",
	Referee2:     "John Smith",
	Linesperson1: "A B",
	Linesperson2: "C D",
}

func fixture() memstore.Fixture {
	return memstore.Fixture{
		Schedule: []firestore.ScheduleEntry{g1},
		Teams:    []firestore.Team{{City: "Hershey"}, {City: "Providence"}},
		Roster: []firestore.RosterMember{
			{ID: "r1", UID: "u1", LastFirstFullName: "Jane Doe", RosterPhoto: "jane.png"},
			{ID: "r2", UID: "u2", LastFirstFullName: "John Smith", RosterPhoto: "john.png"},
			{ID: "r3", UID: "u3", LastFirstFullName: "A B", RosterPhoto: "ab.png"},
			{ID: "r4", UID: "u4", LastFirstFullName: "C D", RosterPhoto: "cd.png"},
			{ID: "r5", UID: "u5", LastFirstFullName: "E F", RosterPhoto: "ef.png"},
		},
	}
}

func setup(t *testing.T) (*memstore.Store, cache.Cache, *Service) {
	t.Helper()
	s, err := memstore.NewFromFixture(fixture())
	require.NoError(t, err)
	c := cache.NewMemory()
	return s, c, NewService(s, c, zerolog.Nop())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cs      ChangeSet
		wantErr error
	}{
		{"no changes", ChangeSet{}, nil},
		{"replacement", ChangeSet{firestore.Referee1: "E F"}, nil},
		{"swap", ChangeSet{firestore.Referee1: "John Smith", firestore.Referee2: "Jane Doe"}, nil},
		{"clear referee1", ChangeSet{firestore.Referee1: ""}, ErrMissingOfficials},
		{"collide with referee2", ChangeSet{firestore.Referee1: "John Smith"}, ErrDuplicateOfficial},
		{"both referees the same", ChangeSet{firestore.Referee1: "Jane Doe", firestore.Referee2: "Jane Doe"}, ErrDuplicateOfficial},
		{"missing checked before duplicate", ChangeSet{firestore.Referee1: "A B", firestore.Linesperson2: ""}, ErrMissingOfficials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(g1, tt.cs)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	err := Validate(g1, ChangeSet{firestore.Slot("umpire"): "X"})
	assert.Error(t, err)
}

func TestCommitRejectsWithoutWriting(t *testing.T) {
	s, _, svc := setup(t)
	ctx := context.Background()

	err := svc.Commit(ctx, "g1", ChangeSet{firestore.Referee1: ""})
	assert.ErrorIs(t, err, ErrMissingOfficials)

	err = svc.Commit(ctx, "g1", ChangeSet{firestore.Referee1: "Jane Doe", firestore.Referee2: "Jane Doe"})
	assert.ErrorIs(t, err, ErrDuplicateOfficial)

	assert.Equal(t, 0, s.Writes())
	stored, err := s.ScheduleEntry(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g1, stored)
}

func TestDuplicateBeforeAnyStoreCall(t *testing.T) {
	s, c, svc := setup(t)
	require.NoError(t, cache.PutJSON(c, cache.GameKey("g1"), aggregate.GameView{ScheduleEntry: g1}))
	// the store is unreachable, so any call would surface ErrStoreUnavailable instead
	s.Fail(errors.New("offline"))

	err := svc.Commit(context.Background(), "g1", ChangeSet{firestore.Referee1: "John Smith"})
	assert.ErrorIs(t, err, ErrDuplicateOfficial)
	assert.NotErrorIs(t, err, firestore.ErrStoreUnavailable)
	assert.Equal(t, 0, s.Writes())
}

func TestCommitAgainstStaleCache(t *testing.T) {
	tests := []struct {
		name     string
		cs       ChangeSet
		wantErr  error
		wantRef1 string
		wantRef2 string
	}{
		{"collision only in the stored game", ChangeSet{firestore.Referee1: "E F"}, ErrDuplicateOfficial, "Jane Doe", "E F"},
		{"slot unchanged in cache but changed in store", ChangeSet{firestore.Referee2: "John Smith"}, nil, "Jane Doe", "John Smith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c, svc := setup(t)
			ctx := context.Background()
			require.NoError(t, cache.PutJSON(c, cache.GameKey("g1"), aggregate.GameView{ScheduleEntry: g1}))
			// someone else reassigns referee2 after the game was cached
			require.NoError(t, s.UpdateSchedule(ctx, "g1", map[firestore.Slot]string{firestore.Referee2: "E F"}))
			writes := s.Writes()

			err := svc.Commit(ctx, "g1", tt.cs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, writes, s.Writes())
			} else {
				require.NoError(t, err)
				assert.Equal(t, writes+1, s.Writes())
			}

			stored, err := s.ScheduleEntry(ctx, "g1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantRef1, stored.Referee1)
			assert.Equal(t, tt.wantRef2, stored.Referee2)

			if tt.wantErr == nil {
				var v aggregate.GameView
				ok, err := cache.GetJSON(c, cache.GameKey("g1"), &v)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, stored, v.ScheduleEntry, "the cached game follows the stored one")
			}
		})
	}
}

func TestCommitIdempotent(t *testing.T) {
	s, _, svc := setup(t)
	ctx := context.Background()
	cs := ChangeSet{firestore.Referee1: "E F", firestore.Linesperson2: "Jane Doe"}

	require.NoError(t, svc.Commit(ctx, "g1", cs))
	first, err := s.ScheduleEntry(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "E F", first.Referee1)
	assert.Equal(t, "Jane Doe", first.Linesperson2)
	assert.Equal(t, 1, s.Writes())

	require.NoError(t, svc.Commit(ctx, "g1", cs))
	second, err := s.ScheduleEntry(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.Writes(), "nothing differs, so nothing is written")
}

func TestCommitUpdatesCache(t *testing.T) {
	s, c, svc := setup(t)
	ctx := context.Background()
	e := aggregate.New(s, c)
	_, err := e.Roster(ctx, nil)
	require.NoError(t, err)
	_, err = e.AllGames(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Commit(ctx, "g1", ChangeSet{firestore.Referee1: "E F"}))

	// the cached view changes without another remote read
	s.Fail(errors.New("offline"))
	v, ok := e.CachedGame("g1")
	require.True(t, ok)
	assert.Equal(t, "E F", v.Referee1)
	require.NotNil(t, v.Officials[firestore.Referee1])
	assert.Equal(t, "ef.png", v.Officials[firestore.Referee1].RosterPhoto)

	var all map[string]aggregate.GameView
	ok, err = cache.GetJSON(c, cache.AdminGamesKey, &all)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "E F", all["g1"].Referee1)
}

func TestEditor(t *testing.T) {
	s, c, svc := setup(t)
	ctx := context.Background()
	v, err := aggregate.New(s, c).ResolveGame(ctx, "g1")
	require.NoError(t, err)

	ed := NewEditor(v)
	assert.Equal(t, "jane.png", ed.Photo(firestore.Referee1))

	ed.Remove(firestore.Referee1)
	assert.Equal(t, "", ed.Photo(firestore.Referee1), "removing an official hides their photo")
	assert.Equal(t, ChangeSet{firestore.Referee1: ""}, ed.Pending())
	assert.ErrorIs(t, svc.CommitEditor(ctx, ed), ErrMissingOfficials)

	// selecting someone already on the game is refused immediately
	err = ed.Select(firestore.Referee1, firestore.RosterMember{LastFirstFullName: "John Smith", RosterPhoto: "john.png"})
	assert.ErrorIs(t, err, ErrDuplicateOfficial)
	assert.Equal(t, "", ed.Effective().Referee1)

	require.NoError(t, ed.Select(firestore.Referee1, firestore.RosterMember{LastFirstFullName: "E F", RosterPhoto: "ef.png"}))
	assert.Equal(t, "ef.png", ed.Photo(firestore.Referee1))
	assert.True(t, ed.Changed())

	err = ed.Select(firestore.Referee2, firestore.RosterMember{ID: "r9", FirstName: "Gus", LastName: "Hale"})
	assert.ErrorIs(t, err, ErrUnlinkedMember)
	assert.Equal(t, "John Smith", ed.Effective().Referee2)

	// reselecting the same person in the same slot is not a collision
	require.NoError(t, ed.Select(firestore.Referee1, firestore.RosterMember{LastFirstFullName: "E F"}))

	require.NoError(t, svc.CommitEditor(ctx, ed))
	assert.Empty(t, ed.Pending())
	assert.False(t, ed.Changed())
	assert.Equal(t, "E F", ed.Entry().Referee1)

	stored, err := s.ScheduleEntry(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "E F", stored.Referee1)
}

func TestPropose(t *testing.T) {
	cs := ChangeSet{firestore.Referee1: "E F"}
	next := Propose(cs, firestore.Referee2, "")
	assert.Len(t, cs, 1, "Propose does not modify its input")
	assert.Equal(t, ChangeSet{firestore.Referee1: "E F", firestore.Referee2: ""}, next)
}

func TestUpdateProfile(t *testing.T) {
	s, _, svc := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProfile(ctx, auth.Principal{UID: "u2"}, "john@example.com", "555-0100"))
	members, err := s.RosterByUID(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "john@example.com", members[0].Email)
	assert.Equal(t, "555-0100", members[0].PhoneNumber)

	err = svc.UpdateProfile(ctx, auth.Principal{UID: "nobody"}, "", "")
	assert.True(t, firestore.IsNotFound(err))

	err = svc.UpdateProfile(ctx, auth.Principal{UID: "u2"}, "not an email", "")
	assert.Error(t, err)
}
