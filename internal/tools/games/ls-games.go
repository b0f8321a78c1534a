package games

import (
	"errors"
	"fmt"

	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

// MyGames fetches the signed-in official's games. If the store cannot be reached
// the cached games are returned instead.
func MyGames(ctx *Context) ([]aggregate.GameView, error) {
	name := ctx.Session.MatchName()
	if name == "" {
		return nil, fmt.Errorf("MyGames: principal \"%s\" has no roster record: %w", ctx.Session.Principal.UID, aggregate.ErrEmptyName)
	}
	var stale []aggregate.GameView
	fresh, err := ctx.Engine.UserGames(ctx, name, func(g []aggregate.GameView) { stale = g })
	if err != nil {
		if stale != nil && errors.Is(err, firestore.ErrStoreUnavailable) {
			ctx.Log.Warn().Err(err).Msg("showing cached games")
			return stale, nil
		}
		return nil, fmt.Errorf("MyGames: %w", err)
	}
	return fresh, nil
}

func LsGames(ctx *Context) error {
	games, err := MyGames(ctx)
	if err != nil {
		return fmt.Errorf("LsGames: %w", err)
	}

	if !ctx.Upcoming {
		agenda.SortByDate(games)
		render.Games(ctx.Out, games)
		return nil
	}

	today := agenda.Today(games, ctx.Clock)
	if len(today) == 0 {
		fmt.Fprintln(ctx.Out, "No game today.")
	} else {
		fmt.Fprintln(ctx.Out, "Today:")
		render.Games(ctx.Out, today)
	}
	upcoming := agenda.Upcoming(games, ctx.Clock, ctx.UpcomingCount)
	if len(upcoming) == 0 {
		fmt.Fprintln(ctx.Out, "No upcoming games.")
		return nil
	}
	fmt.Fprintln(ctx.Out, "Upcoming:")
	render.Games(ctx.Out, upcoming)
	return nil
}
