package games

import (
	"fmt"

	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

func Calendar(ctx *Context) error {
	games, err := MyGames(ctx)
	if err != nil {
		return fmt.Errorf("Calendar: %w", err)
	}
	days := agenda.Calendar(games)
	if len(days) == 0 {
		fmt.Fprintln(ctx.Out, "No games scheduled.")
		return nil
	}
	render.Calendar(ctx.Out, days)
	return nil
}
