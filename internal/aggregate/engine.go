// Package aggregate joins schedule entries with their team and roster documents.
//
// Joins happen on the client because Firestore has none. A call either returns a view of
// every matched entry or an error: partial results are never returned. Missing teams or
// officials inside a successful call are left nil.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyName is returned when an official's name is required but blank.
var ErrEmptyName = errors.New("official name must not be empty")

// Store is what the engine reads from the remote document store.
type Store interface {
	ScheduleByOfficial(ctx context.Context, slot firestore.Slot, name string) ([]firestore.ScheduleEntry, error)
	Schedule(ctx context.Context) ([]firestore.ScheduleEntry, error)
	ScheduleEntry(ctx context.Context, id string) (firestore.ScheduleEntry, error)
	TeamsByCity(ctx context.Context, cities []string) ([]firestore.Team, error)
	RosterByMatchName(ctx context.Context, names []string) ([]firestore.RosterMember, error)
	Roster(ctx context.Context) ([]firestore.RosterMember, error)
	WatchSchedule(ctx context.Context, fn func([]firestore.ScheduleEntry) error) error
}

// GameView is a schedule entry joined with its teams and officials.
type GameView struct {
	firestore.ScheduleEntry

	AwayTeamData *firestore.Team `json:"awayTeamData"`
	HomeTeamData *firestore.Team `json:"homeTeamData"`

	// Officials has an entry for every slot. The value is nil when the slot is unfilled,
	// when no roster member has the slot's name, or when the name is ambiguous.
	Officials map[firestore.Slot]*firestore.RosterMember `json:"officials"`

	// Ambiguous lists the slots whose name matched more than one roster member.
	Ambiguous []firestore.Slot `json:"ambiguous,omitempty"`
}

// Engine resolves GameViews and keeps the local cache up to date.
type Engine struct {
	store     Store
	cache     cache.Cache
	log       zerolog.Logger
	batchSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithBatchSize caps the number of values per "in" query. It defaults to firestore.MaxInFilter.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 && n <= firestore.MaxInFilter {
			e.batchSize = n
		}
	}
}

// New creates an Engine.
func New(store Store, c cache.Cache, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		cache:     c,
		log:       zerolog.Nop(),
		batchSize: firestore.MaxInFilter,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ResolveUserGames returns one GameView per schedule entry that names the official in any slot.
// Order is unspecified.
func (e *Engine) ResolveUserGames(ctx context.Context, name string) ([]GameView, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	results := make([][]firestore.ScheduleEntry, len(firestore.Slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range firestore.Slots {
		i, slot := i, slot
		g.Go(func() error {
			entries, err := e.store.ScheduleByOfficial(gctx, slot, name)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ResolveUserGames: %w", err)
	}

	entries := unionByID(results...)
	e.log.Debug().Str("official", name).Int("games", len(entries)).Msg("matched schedule entries")

	views, err := e.join(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("ResolveUserGames: %w", err)
	}
	return views, nil
}

// ResolveAllGames returns a GameView for every schedule entry keyed by document ID.
// Callers must check the admin role first.
func (e *Engine) ResolveAllGames(ctx context.Context) (map[string]GameView, error) {
	entries, err := e.store.Schedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("ResolveAllGames: %w", err)
	}
	views, err := e.join(ctx, unionByID(entries))
	if err != nil {
		return nil, fmt.Errorf("ResolveAllGames: %w", err)
	}
	return byID(views), nil
}

// ResolveGame returns the GameView of one schedule entry.
func (e *Engine) ResolveGame(ctx context.Context, id string) (GameView, error) {
	entry, err := e.store.ScheduleEntry(ctx, id)
	if err != nil {
		return GameView{}, fmt.Errorf("ResolveGame: %w", err)
	}
	views, err := e.join(ctx, []firestore.ScheduleEntry{entry})
	if err != nil {
		return GameView{}, fmt.Errorf("ResolveGame: %w", err)
	}
	return views[0], nil
}

func (e *Engine) join(ctx context.Context, entries []firestore.ScheduleEntry) ([]GameView, error) {
	cities, names := references(entries)

	var teams []firestore.Team
	var members []firestore.RosterMember
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = batched(gctx, cities, e.batchSize, e.store.TeamsByCity)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = batched(gctx, names, e.batchSize, e.store.RosterByMatchName)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCity := firestore.NewTeamsByCity(teams)
	byName := firestore.NewRosterByName(members)
	views := make([]GameView, len(entries))
	for i, entry := range entries {
		views[i] = e.view(entry, byCity, byName)
	}
	return views, nil
}

func (e *Engine) view(entry firestore.ScheduleEntry, byCity firestore.TeamsByCity, byName firestore.RosterByName) GameView {
	v := GameView{
		ScheduleEntry: entry,
		AwayTeamData:  byCity.Lookup(entry.AwayTeam),
		HomeTeamData:  byCity.Lookup(entry.HomeTeam),
		Officials:     make(map[firestore.Slot]*firestore.RosterMember, len(firestore.Slots)),
	}
	for _, slot := range firestore.Slots {
		name := entry.Official(slot)
		if name == "" {
			v.Officials[slot] = nil
			continue
		}
		m, err := byName.Lookup(name)
		if err != nil {
			e.log.Warn().Err(err).Str("schedule", entry.ID).Str("slot", string(slot)).Msg("official not resolved")
			v.Ambiguous = append(v.Ambiguous, slot)
		}
		v.Officials[slot] = m
	}
	return v
}

// batched splits values into chunks of at most size and merges the results of fetch over every chunk.
func batched[T any](ctx context.Context, values []string, size int, fetch func(context.Context, []string) ([]T, error)) ([]T, error) {
	chunks := firestore.Chunk(values, size)
	results := make([][]T, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			r, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// unionByID merges entry lists, keeping the first occurrence of each document ID.
func unionByID(lists ...[]firestore.ScheduleEntry) []firestore.ScheduleEntry {
	seen := make(map[string]struct{})
	out := make([]firestore.ScheduleEntry, 0)
	for _, list := range lists {
		for _, entry := range list {
			if _, ok := seen[entry.ID]; ok {
				continue
			}
			seen[entry.ID] = struct{}{}
			out = append(out, entry)
		}
	}
	return out
}

// references collects the distinct team cities and official names used by entries.
func references(entries []firestore.ScheduleEntry) (cities []string, names []string) {
	seenCity := make(map[string]struct{})
	seenName := make(map[string]struct{})
	for _, entry := range entries {
		for _, c := range []string{entry.AwayTeam, entry.HomeTeam} {
			if _, ok := seenCity[c]; c == "" || ok {
				continue
			}
			seenCity[c] = struct{}{}
			cities = append(cities, c)
		}
		for _, n := range entry.Officials() {
			if _, ok := seenName[n]; ok {
				continue
			}
			seenName[n] = struct{}{}
			names = append(names, n)
		}
	}
	return
}

func byID(views []GameView) map[string]GameView {
	m := make(map[string]GameView, len(views))
	for _, v := range views {
		m[v.ID] = v
	}
	return m
}
