package admin

import (
	"errors"
	"fmt"

	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

// AllGames fetches every game, sorted by date. If the store cannot be reached the cached games are returned instead.
func AllGames(ctx *Context) ([]aggregate.GameView, error) {
	if err := requireAdmin(ctx, "AllGames"); err != nil {
		return nil, err
	}
	var stale map[string]aggregate.GameView
	all, err := ctx.Engine.AllGames(ctx, func(m map[string]aggregate.GameView) { stale = m })
	if err != nil {
		if stale == nil || !errors.Is(err, firestore.ErrStoreUnavailable) {
			return nil, fmt.Errorf("AllGames: %w", err)
		}
		ctx.Log.Warn().Err(err).Msg("showing cached games")
		all = stale
	}
	games := make([]aggregate.GameView, 0, len(all))
	for _, id := range agenda.SortedKeys(all) {
		games = append(games, all[id])
	}
	agenda.SortByDate(games)
	return games, nil
}

func LsGames(ctx *Context) error {
	games, err := AllGames(ctx)
	if err != nil {
		return fmt.Errorf("LsGames: %w", err)
	}
	if ctx.Official != "" {
		filtered := games[:0]
		for _, g := range games {
			for _, name := range g.ScheduleEntry.Officials() {
				if name == ctx.Official {
					filtered = append(filtered, g)
					break
				}
			}
		}
		games = filtered
	}
	render.Games(ctx.Out, games)
	return nil
}
