package admin

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reallyasi9/stripes/internal/access"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/memstore"
	"github.com/reallyasi9/stripes/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
)

var roster = []firestore.RosterMember{
	{ID: "r1", UID: "boss", FirstName: "Jane", LastName: "Doe", LastFirstFullName: "Doe, Jane", Role: firestore.RoleAdmin},
	{ID: "r2", UID: "u2", FirstName: "John", LastName: "Smith", LastFirstFullName: "Smith, John"},
	{ID: "r3", UID: "u3", LastFirstFullName: "B, A"},
	{ID: "r4", UID: "u4", LastFirstFullName: "D, C"},
	{ID: "r5", UID: "u5", LastFirstFullName: "F, E"},
}

func setup(t *testing.T, role firestore.Role) (*Context, *memstore.Store, *bytes.Buffer) {
	t.Helper()
	s, err := memstore.NewFromFixture(memstore.Fixture{
		Schedule: []firestore.ScheduleEntry{
			{ID: "g2", GameID: "2", GameDate: "10/19/2024", GameTime: "7:00 PM", AwayTeam: "Hershey", HomeTeam: "Providence",
				Referee1: "Smith, John", Referee2: "Doe, Jane", Linesperson1: "B, A", Linesperson2: "D, C"},
			{ID: "g1", GameID: "1", GameDate: "10/18/2024", GameTime: "7:00 PM", AwayTeam: "Providence", HomeTeam: "Hershey",
				Referee1: "Doe, Jane", Referee2: "Smith, John", Linesperson1: "B, A", Linesperson2: "D, C"},
		},
		Teams: []firestore.Team{
			{City: "Hershey", ArenaName: "Giant Center"},
			{City: "Providence", ArenaName: "Amica Mutual Pavilion"},
		},
		Roster: roster,
	})
	require.NoError(t, err)
	c := cache.NewMemory()
	out := new(bytes.Buffer)

	ctx := NewContext(context.Background())
	ctx.Engine = aggregate.New(s, c)
	ctx.Service = assign.NewService(s, c, zerolog.Nop())
	ctx.Session = session.Session{Principal: auth.Principal{UID: "boss"}, Member: &roster[0], Role: role}
	ctx.Out = out
	ctx.NoProgress = true
	return ctx, s, out
}

func TestRequiresAdmin(t *testing.T) {
	ops := map[string]func(*Context) error{
		"LsGames":  LsGames,
		"Assign":   Assign,
		"EditGame": EditGame,
		"Watch":    Watch,
		"Export":   Export,
		"Warm":     Warm,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			ctx, s, _ := setup(t, firestore.RoleUser)
			ctx.ID = "g1"
			ctx.Changes = assign.ChangeSet{firestore.Referee1: "F, E"}
			err := op(ctx)
			assert.ErrorIs(t, err, access.ErrAccessDenied)
			assert.Equal(t, 0, s.Writes())
		})
	}
}

func TestLsGames(t *testing.T) {
	ctx, _, out := setup(t, firestore.RoleAdmin)
	require.NoError(t, LsGames(ctx))
	text := out.String()
	assert.Less(t, strings.Index(text, "g1"), strings.Index(text, "g2"), "games are listed by date")

	games, err := AllGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 2)

	ctx.Official = "Nobody, Here"
	out.Reset()
	require.NoError(t, LsGames(ctx))
	assert.NotContains(t, out.String(), "g1")
}

func TestAllGamesFallsBackToCache(t *testing.T) {
	ctx, s, _ := setup(t, firestore.RoleAdmin)
	_, err := AllGames(ctx)
	require.NoError(t, err)

	s.Fail(errors.New("offline"))
	games, err := AllGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestAssign(t *testing.T) {
	ctx, s, _ := setup(t, firestore.RoleAdmin)
	ctx.ID = "g1"

	ctx.Changes = assign.ChangeSet{firestore.Referee1: "Smith, John"}
	assert.ErrorIs(t, Assign(ctx), assign.ErrDuplicateOfficial)

	ctx.Changes = assign.ChangeSet{firestore.Referee1: "F, E"}
	ctx.DryRun = true
	require.NoError(t, Assign(ctx))
	assert.Equal(t, 0, s.Writes())

	ctx.DryRun = false
	require.NoError(t, Assign(ctx))
	assert.Equal(t, 1, s.Writes())
	stored, err := s.ScheduleEntry(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "F, E", stored.Referee1)

	ctx.Changes = assign.ChangeSet{}
	assert.Error(t, Assign(ctx))
}

func TestExport(t *testing.T) {
	ctx, _, out := setup(t, firestore.RoleAdmin)

	require.NoError(t, Export(ctx))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID, Game, Date"))
	assert.True(t, strings.HasPrefix(lines[1], "g1, 1, 10/18/2024"))
	assert.Contains(t, lines[1], "Giant Center")

	ctx.Output = filepath.Join(t.TempDir(), "schedule.xlsx")
	require.NoError(t, Export(ctx))
	xl, err := excelize.OpenFile(ctx.Output)
	require.NoError(t, err)
	defer xl.Close()
	sheet := xl.GetSheetName(xl.GetActiveSheetIndex())
	v, err := xl.GetCellValue(sheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, "Smith, John", v)

	ctx.Output = "ftp://example.com/schedule.xlsx"
	assert.Error(t, Export(ctx))
}

func TestWarm(t *testing.T) {
	ctx, s, _ := setup(t, firestore.RoleAdmin)
	require.NoError(t, Warm(ctx))

	s.Fail(errors.New("offline"))
	var stale []aggregate.GameView
	_, err := ctx.Engine.UserGames(ctx, "B, A", func(v []aggregate.GameView) { stale = v })
	assert.Error(t, err)
	assert.Len(t, stale, 2)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	ctx, s, _ := setup(t, firestore.RoleAdmin)
	out := new(syncBuffer)
	ctx.Out = out
	watchCtx, cancel := context.WithCancel(context.Background())
	ctx.Context = watchCtx

	done := make(chan error, 1)
	go func() { done <- Watch(ctx) }()

	require.Eventually(t, func() bool { return strings.Count(out.String(), "Schedule as of") == 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.UpdateSchedule(context.Background(), "g2", map[firestore.Slot]string{firestore.Referee1: "F, E"}))
	require.Eventually(t, func() bool { return strings.Count(out.String(), "Schedule as of") == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestMemberOptions(t *testing.T) {
	members := append([]firestore.RosterMember{}, roster...)
	members = append(members, firestore.RosterMember{ID: "r6", LastFirstFullName: "F, E"})
	members = append(members, firestore.RosterMember{ID: "r7", FirstName: "Gus", LastName: "Hale"})
	options, byOption := memberOptions(members)
	assert.NotContains(t, options, "Hale, Gus", "members without a stored schedule name are not offered")
	assert.Len(t, options, 6)
	assert.Contains(t, options, "F, E [r5]")
	assert.Contains(t, options, "F, E [r6]")
	assert.NotContains(t, options, "F, E")
	assert.Equal(t, "r6", byOption["F, E [r6]"].ID)
	assert.Equal(t, []string{"B, A", "D, C", "Doe, Jane"}, options[:3])
}
