package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct{ n int }

func (o *countingObserver) ObserveReads(n int) { o.n += n }

func load(t *testing.T) *Store {
	t.Helper()
	f, err := LoadFixture("testdata/fixture.yaml")
	require.NoError(t, err)
	s, err := NewFromFixture(f)
	require.NoError(t, err)
	return s
}

func TestLoadFixture(t *testing.T) {
	s := load(t)
	ctx := context.Background()

	g2, err := s.ScheduleEntry(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, "", g2.Linesperson2, "missing slots load empty")
	assert.Equal(t, "6:05 PM", g2.GameTime)

	members, err := s.RosterByUID(ctx, "u-jane")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "u-jane", members[0].ID, "roster IDs default to the UID")
	assert.Equal(t, firestore.RoleAdmin, members[0].Role)

	members, err = s.RosterByUID(ctx, "u-alex")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "r-alex", members[0].ID)

	_, err = LoadFixture("testdata/missing.yaml")
	assert.Error(t, err)
	_, err = NewFromFixture(Fixture{Schedule: []firestore.ScheduleEntry{{GameID: "1"}}})
	assert.Error(t, err)
}

func TestQueries(t *testing.T) {
	s := load(t)
	obs := &countingObserver{}
	s.SetObserver(obs)
	ctx := context.Background()

	entries, err := s.ScheduleByOfficial(ctx, firestore.Referee2, "Doe, Jane")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "g2", entries[0].ID)

	entries, err = s.ScheduleByOfficial(ctx, firestore.Linesperson2, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.ScheduleByOfficial(ctx, firestore.Slot("umpire"), "Doe, Jane")
	assert.Error(t, err)

	teams, err := s.TeamsByCity(ctx, []string{"Hershey", "Hershey", "Nowhere"})
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Giant Center", teams[0].ArenaName)

	many := make([]string, firestore.MaxInFilter+1)
	_, err = s.TeamsByCity(ctx, many)
	assert.Error(t, err)

	members, err := s.RosterByMatchName(ctx, []string{"Doe, Jane", "Smith, John", "Ghost, Casper"})
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// 1 + 1 (empty result still costs a read) + 1 team + 2 members
	assert.Equal(t, 5, obs.n)

	_, err = s.ScheduleEntry(ctx, "missing")
	assert.True(t, firestore.IsNotFound(err))
}

func TestUpdates(t *testing.T) {
	s := load(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateSchedule(ctx, "g2", map[firestore.Slot]string{
		firestore.Linesperson2: "Green, Casey",
		firestore.Referee1:     "",
	}))
	g2, err := s.ScheduleEntry(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, "Green, Casey", g2.Linesperson2)
	assert.Equal(t, "", g2.Referee1)
	assert.Equal(t, "Doe, Jane", g2.Referee2, "other slots are untouched")

	entries, err := s.ScheduleByOfficial(ctx, firestore.Referee1, "Smith, John")
	require.NoError(t, err)
	assert.Empty(t, entries, "slot indexes follow updates")

	require.NoError(t, s.UpdateRosterProfile(ctx, "u-john", "john@example.com", "555-0100"))
	assert.Equal(t, 2, s.Writes())

	err = s.UpdateSchedule(ctx, "missing", map[firestore.Slot]string{firestore.Referee1: "X"})
	assert.True(t, firestore.IsNotFound(err))
	assert.NoError(t, s.UpdateSchedule(ctx, "g1", nil))
	assert.Equal(t, 2, s.Writes())
}

func TestFail(t *testing.T) {
	s := load(t)
	ctx := context.Background()
	s.Fail(errors.New("offline"))

	_, err := s.Schedule(ctx)
	assert.ErrorIs(t, err, firestore.ErrStoreUnavailable)
	err = s.UpdateSchedule(ctx, "g1", map[firestore.Slot]string{firestore.Referee1: "X"})
	assert.ErrorIs(t, err, firestore.ErrStoreUnavailable)
	assert.Equal(t, 0, s.Writes())

	s.Fail(nil)
	entries, err := s.Schedule(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
