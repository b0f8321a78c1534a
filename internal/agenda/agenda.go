// Package agenda arranges games by date relative to the current day.
package agenda

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	"golang.org/x/exp/constraints"
)

// DefaultUpcoming is how many upcoming games the home view lists.
const DefaultUpcoming = 3

// DayFormat is the key format of calendar days.
const DayFormat = "2006-01-02"

// Day is one calendar day with its games in time order.
type Day struct {
	Date  string
	Games []aggregate.GameView
}

func day(v aggregate.GameView, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(firestore.GameDateFormat, v.GameDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the games played on the clock's current day, in time order.
// Games with unreadable dates are never on any day.
func Today(games []aggregate.GameView, clock clockwork.Clock) []aggregate.GameView {
	now := midnight(clock.Now())
	out := make([]aggregate.GameView, 0)
	for _, g := range games {
		if t, ok := day(g, now.Location()); ok && t.Equal(now) {
			out = append(out, g)
		}
	}
	SortByDate(out)
	return out
}

// Upcoming returns the first n games strictly after the clock's current day, soonest first.
// A non-positive n means DefaultUpcoming.
func Upcoming(games []aggregate.GameView, clock clockwork.Clock, n int) []aggregate.GameView {
	if n <= 0 {
		n = DefaultUpcoming
	}
	now := midnight(clock.Now())
	out := make([]aggregate.GameView, 0, n)
	for _, g := range games {
		if t, ok := day(g, now.Location()); ok && t.After(now) {
			out = append(out, g)
		}
	}
	SortByDate(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Calendar groups games by day, earliest day first.
func Calendar(games []aggregate.GameView) []Day {
	byDay := make(map[string][]aggregate.GameView)
	for _, g := range games {
		t, ok := day(g, time.UTC)
		if !ok {
			continue
		}
		key := t.Format(DayFormat)
		byDay[key] = append(byDay[key], g)
	}
	out := make([]Day, 0, len(byDay))
	for _, key := range SortedKeys(byDay) {
		gs := byDay[key]
		SortByDate(gs)
		out = append(out, Day{Date: key, Games: gs})
	}
	return out
}

// SortByDate sorts games by date, then start time, then document ID.
// Games with unreadable dates sort last.
func SortByDate(games []aggregate.GameView) {
	sort.SliceStable(games, func(i, j int) bool {
		ti, oki := day(games[i], time.UTC)
		tj, okj := day(games[j], time.UTC)
		switch {
		case oki != okj:
			return oki
		case !ti.Equal(tj):
			return ti.Before(tj)
		case games[i].GameTime != games[j].GameTime:
			return games[i].GameTime < games[j].GameTime
		}
		return games[i].ID < games[j].ID
	})
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
