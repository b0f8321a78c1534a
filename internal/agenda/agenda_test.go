package agenda

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(id, date, tm string) aggregate.GameView {
	return aggregate.GameView{ScheduleEntry: firestore.ScheduleEntry{ID: id, GameDate: date, GameTime: tm}}
}

func ids(games []aggregate.GameView) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

var season = []aggregate.GameView{
	game("late", "10/20/2024", "7:00 PM"),
	game("yesterday", "10/14/2024", "7:00 PM"),
	game("tonight", "10/15/2024", "7:05 PM"),
	game("matinee", "10/15/2024", "1:00 PM"),
	game("tomorrow", "10/16/2024", "7:00 PM"),
	game("broken", "sometime", ""),
	game("next-week", "10/22/2024", "7:00 PM"),
	game("weekend", "10/19/2024", "7:00 PM"),
}

func TestToday(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 10, 15, 21, 30, 0, 0, time.Local))
	assert.Equal(t, []string{"matinee", "tonight"}, ids(Today(season, clock)))

	clock.Advance(3 * time.Hour)
	assert.Equal(t, []string{"tomorrow"}, ids(Today(season, clock)))
}

func TestUpcoming(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 10, 15, 8, 0, 0, 0, time.Local))
	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"tomorrow", "weekend", "late"}},
		{3, []string{"tomorrow", "weekend", "late"}},
		{1, []string{"tomorrow"}},
		{10, []string{"tomorrow", "weekend", "late", "next-week"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ids(Upcoming(season, clock, tt.n)), "n=%d", tt.n)
	}

	clock.Advance(30 * 24 * time.Hour)
	assert.Empty(t, Upcoming(season, clock, 3))
}

func TestCalendar(t *testing.T) {
	days := Calendar(season)
	require.Len(t, days, 6)
	assert.Equal(t, "2024-10-14", days[0].Date)
	assert.Equal(t, "2024-10-15", days[1].Date)
	assert.Equal(t, []string{"matinee", "tonight"}, ids(days[1].Games))
	assert.Equal(t, "2024-10-22", days[5].Date)
}

func TestSortByDate(t *testing.T) {
	games := append([]aggregate.GameView(nil), season...)
	SortByDate(games)
	assert.Equal(t, []string{"yesterday", "matinee", "tonight", "tomorrow", "weekend", "late", "next-week", "broken"}, ids(games))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, SortedKeys(map[int]bool{3: true, 1: false, 2: true}))
	assert.Empty(t, SortedKeys(map[string]int{}))
}

func TestLinks(t *testing.T) {
	l := NewLinks()
	tests := []struct {
		gameID    string
		center    string
		gamesheet string
		wantErr   bool
	}{
		{"1", "https://theahl.com/stats/game-center/1026475", "https://lscluster.hockeytech.com/game_reports/official-game-report.php?lang_id=1&client_code=ahl&game_id=1026475", false},
		{"12-345", "https://theahl.com/stats/game-center/1026486", "https://lscluster.hockeytech.com/game_reports/official-game-report.php?lang_id=1&client_code=ahl&game_id=1026486", false},
		{"A-1", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.gameID, func(t *testing.T) {
			center, err := l.GameCenterURL(tt.gameID)
			sheet, err2 := l.GamesheetURL(tt.gameID)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, err2)
				return
			}
			require.NoError(t, err)
			require.NoError(t, err2)
			assert.Equal(t, tt.center, center)
			assert.Equal(t, tt.gamesheet, sheet)
		})
	}

	assert.Len(t, l.External, 4)
	custom := Links{ReportBase: 100}
	n, err := custom.ReportNumber("5")
	require.NoError(t, err)
	assert.Equal(t, 104, n)
}
