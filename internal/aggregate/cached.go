package aggregate

import (
	"context"
	"fmt"
	"sort"

	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/firestore"
)

// The methods in this file serve stale data first and then revalidate.
// If a cached value exists, paint is called with it before any remote read.
// The fresh value overwrites the cache and is returned. On failure the cache is left
// alone, so a later paint still shows the last good data.

// UserGames is the cached form of ResolveUserGames.
func (e *Engine) UserGames(ctx context.Context, name string, paint func([]GameView)) ([]GameView, error) {
	var stale []GameView
	if e.load(cache.GamesKey(name), &stale) && paint != nil {
		paint(stale)
	}
	fresh, err := e.ResolveUserGames(ctx, name)
	if err != nil {
		return nil, err
	}
	e.save(cache.GamesKey(name), fresh)
	e.saveGames(fresh)
	return fresh, nil
}

// AllGames is the cached form of ResolveAllGames.
func (e *Engine) AllGames(ctx context.Context, paint func(map[string]GameView)) (map[string]GameView, error) {
	var stale map[string]GameView
	if e.load(cache.AdminGamesKey, &stale) && paint != nil {
		paint(stale)
	}
	fresh, err := e.ResolveAllGames(ctx)
	if err != nil {
		return nil, err
	}
	e.save(cache.AdminGamesKey, fresh)
	e.saveGames(values(fresh))
	return fresh, nil
}

// Game is the cached form of ResolveGame.
func (e *Engine) Game(ctx context.Context, id string, paint func(GameView)) (GameView, error) {
	var stale GameView
	if e.load(cache.GameKey(id), &stale) && paint != nil {
		paint(stale)
	}
	fresh, err := e.ResolveGame(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	e.save(cache.GameKey(id), fresh)
	return fresh, nil
}

// CachedGame returns the cached view of one game without touching the store.
func (e *Engine) CachedGame(id string) (GameView, bool) {
	var v GameView
	ok := e.load(cache.GameKey(id), &v)
	return v, ok
}

// Roster returns every roster member, painting the cached roster first.
func (e *Engine) Roster(ctx context.Context, paint func([]firestore.RosterMember)) ([]firestore.RosterMember, error) {
	var stale []firestore.RosterMember
	if e.load(cache.RosterKey, &stale) && paint != nil {
		paint(stale)
	}
	fresh, err := e.store.Roster(ctx)
	if err != nil {
		return nil, fmt.Errorf("Roster: %w", err)
	}
	e.save(cache.RosterKey, fresh)
	return fresh, nil
}

// Warm fills the cache for offline use: every game, the roster, and each member's own games.
// Member game lists are derived from the full schedule, so the store is read only twice.
// progress, if not nil, is called after each member with the number done and the total.
func (e *Engine) Warm(ctx context.Context, progress func(done, total int)) error {
	all, err := e.AllGames(ctx, nil)
	if err != nil {
		return fmt.Errorf("Warm: %w", err)
	}
	members, err := e.Roster(ctx, nil)
	if err != nil {
		return fmt.Errorf("Warm: %w", err)
	}

	bySlotName := make(map[string][]GameView)
	for _, v := range sortedViews(all) {
		seen := make(map[string]struct{}, len(firestore.Slots))
		for _, name := range v.ScheduleEntry.Officials() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			bySlotName[name] = append(bySlotName[name], v)
		}
	}
	for i, m := range members {
		name := m.MatchName()
		if name != "" {
			games := bySlotName[name]
			if games == nil {
				games = []GameView{}
			}
			e.save(cache.GamesKey(name), games)
		}
		if progress != nil {
			progress(i+1, len(members))
		}
	}
	e.log.Debug().Int("games", len(all)).Int("members", len(members)).Msg("cache warmed")
	return nil
}

func sortedViews(m map[string]GameView) []GameView {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]GameView, len(ids))
	for i, id := range ids {
		out[i] = m[id]
	}
	return out
}

// WatchAllGames joins every schedule snapshot and hands the whole result to fn.
// Each call replaces the previous one; nothing is merged between snapshots.
// It blocks until ctx is done, the store fails, or fn returns an error.
func (e *Engine) WatchAllGames(ctx context.Context, fn func(map[string]GameView) error) error {
	return e.store.WatchSchedule(ctx, func(entries []firestore.ScheduleEntry) error {
		views, err := e.join(ctx, unionByID(entries))
		if err != nil {
			return fmt.Errorf("WatchAllGames: %w", err)
		}
		m := byID(views)
		e.save(cache.AdminGamesKey, m)
		e.saveGames(views)
		return fn(m)
	})
}

func (e *Engine) load(key string, v any) bool {
	ok, err := cache.GetJSON(e.cache, key, v)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable cache entry")
		return false
	}
	return ok
}

func (e *Engine) save(key string, v any) {
	if err := cache.PutJSON(e.cache, key, v); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("unable to update cache")
	}
}

func (e *Engine) saveGames(views []GameView) {
	for _, v := range views {
		e.save(cache.GameKey(v.ID), v)
	}
}

func values(m map[string]GameView) []GameView {
	out := make([]GameView, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
