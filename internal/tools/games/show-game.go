package games

import (
	"errors"
	"fmt"

	"github.com/reallyasi9/stripes/internal/access"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

// ShowGame prints one game. Officials may only see games they work; admins may see any.
func ShowGame(ctx *Context) error {
	if ctx.ID == "" {
		return fmt.Errorf("ShowGame: no game ID given")
	}
	var stale *aggregate.GameView
	v, err := ctx.Engine.Game(ctx, ctx.ID, func(g aggregate.GameView) { stale = &g })
	if err != nil {
		if stale == nil || !errors.Is(err, firestore.ErrStoreUnavailable) {
			return fmt.Errorf("ShowGame: %w", err)
		}
		ctx.Log.Warn().Err(err).Str("schedule", ctx.ID).Msg("showing cached game")
		v = *stale
	}

	if !ctx.Session.IsAdmin() && !works(v, ctx.Session.MatchName()) {
		return fmt.Errorf("ShowGame: %s: %w", ctx.ID, access.ErrAccessDenied)
	}

	render.Game(ctx.Out, v, ctx.Links)
	return nil
}

func works(v aggregate.GameView, name string) bool {
	if name == "" {
		return false
	}
	for _, slot := range firestore.Slots {
		if v.Official(slot) == name {
			return true
		}
	}
	return false
}
