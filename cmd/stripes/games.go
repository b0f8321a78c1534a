package main

import (
	"context"
	"os"

	"github.com/reallyasi9/stripes/internal/tools/games"
)

// gamesContext builds a games tool context for the signed-in official.
func gamesContext(g *globalCmd) (*games.Context, *env, error) {
	ctx := games.NewContext(context.Background())
	e, err := g.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	ctx.Session, err = g.signIn(ctx, e)
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	ctx.Engine = e.engine
	ctx.Links = e.cfg.AgendaLinks()
	ctx.UpcomingCount = e.cfg.Upcoming
	ctx.Log = e.log
	ctx.Out = os.Stdout
	return ctx, e, nil
}

type lsGamesCmd struct {
	Upcoming bool `help:"Only show today's game and the next few."`
}

func (a *lsGamesCmd) Run(g *globalCmd) error {
	ctx, e, err := gamesContext(g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.Upcoming = a.Upcoming
	return games.LsGames(ctx)
}

type showGameCmd struct {
	ID string `arg:"" help:"Schedule document ID of the game." required:""`
}

func (a *showGameCmd) Run(g *globalCmd) error {
	ctx, e, err := gamesContext(g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.ID = a.ID
	return games.ShowGame(ctx)
}

type calendarCmd struct{}

func (a *calendarCmd) Run(g *globalCmd) error {
	ctx, e, err := gamesContext(g)
	if err != nil {
		return err
	}
	defer e.Close()
	return games.Calendar(ctx)
}
