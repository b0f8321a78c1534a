package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

// Watch redraws the full schedule every time it changes until ctx is cancelled.
func Watch(ctx *Context) error {
	if err := requireAdmin(ctx, "Watch"); err != nil {
		return err
	}
	err := ctx.Engine.WatchAllGames(ctx, func(all map[string]aggregate.GameView) error {
		games := make([]aggregate.GameView, 0, len(all))
		for _, id := range agenda.SortedKeys(all) {
			games = append(games, all[id])
		}
		agenda.SortByDate(games)
		fmt.Fprintf(ctx.Out, "Schedule as of %s (%d games)\n", time.Now().Format(time.Kitchen), len(games))
		render.Games(ctx.Out, games)
		return nil
	})
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	return nil
}
