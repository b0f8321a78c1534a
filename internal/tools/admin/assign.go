package admin

import (
	"fmt"

	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

// Assign commits ctx.Changes to game ctx.ID.
func Assign(ctx *Context) error {
	if err := requireAdmin(ctx, "Assign"); err != nil {
		return err
	}
	if ctx.ID == "" {
		return fmt.Errorf("Assign: no game ID given")
	}
	if len(ctx.Changes) == 0 {
		return fmt.Errorf("Assign: at least one slot to change must be specified")
	}

	if ctx.DryRun {
		v, err := ctx.Engine.Game(ctx, ctx.ID, nil)
		if err != nil {
			return fmt.Errorf("Assign: %w", err)
		}
		if err := assign.Validate(v.ScheduleEntry, ctx.Changes); err != nil {
			return err
		}
		ctx.Log.Info().Msgf("DRY RUN: would make the following changes to %s:", ctx.ID)
		for slot, name := range assign.Diff(v.ScheduleEntry, ctx.Changes) {
			ctx.Log.Info().Msgf("%s: \"%s\" to \"%s\"", slot, v.Official(slot), name)
		}
		return nil
	}

	if err := ctx.Service.Commit(ctx, ctx.ID, ctx.Changes); err != nil {
		return fmt.Errorf("Assign: %w", err)
	}

	if v, ok := ctx.Engine.CachedGame(ctx.ID); ok {
		render.Crew(ctx.Out, v)
	}
	return nil
}
