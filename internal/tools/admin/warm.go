package admin

import (
	"fmt"

	progressbar "github.com/schollz/progressbar/v3"
)

// Warm loads every game and roster record into the local cache so officials' views work offline.
func Warm(ctx *Context) error {
	if err := requireAdmin(ctx, "Warm"); err != nil {
		return err
	}
	var bar *progressbar.ProgressBar
	err := ctx.Engine.Warm(ctx, func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("caching officials"),
				progressbar.OptionSetVisibility(!ctx.NoProgress),
			)
		}
		bar.Set(done)
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("Warm: %w", err)
	}
	ctx.Log.Info().Msg("cache warmed")
	return nil
}
