package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/config"
	"github.com/reallyasi9/stripes/internal/telemetry"
	"github.com/reallyasi9/stripes/internal/tools/reads"
)

// readsContext opens only the cache: counting reads needs no store connection.
func readsContext(g *globalCmd) (*reads.Context, func() error, error) {
	log := g.logger()
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	path := g.Cache
	if path == "" {
		path = cfg.CachePath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("no cache at %s: %w", path, err)
	}
	c, err := cache.OpenBolt(path)
	if err != nil {
		return nil, nil, err
	}
	ctx := reads.NewContext(context.Background())
	ctx.Counter = telemetry.NewCounter(c, log)
	ctx.Out = os.Stdout
	return ctx, c.Close, nil
}

type showReadsCmd struct{}

func (a *showReadsCmd) Run(g *globalCmd) error {
	ctx, closer, err := readsContext(g)
	if err != nil {
		return err
	}
	defer closer()
	return reads.ShowReads(ctx)
}

type resetReadsCmd struct{}

func (a *resetReadsCmd) Run(g *globalCmd) error {
	ctx, closer, err := readsContext(g)
	if err != nil {
		return err
	}
	defer closer()
	return reads.ResetReads(ctx)
}
