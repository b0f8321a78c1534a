package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/tools/admin"
)

// adminContext builds an admin tool context. The admin role is checked by each tool.
func adminContext(parent context.Context, g *globalCmd) (*admin.Context, *env, error) {
	ctx := admin.NewContext(parent)
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
	ctx.Service = e.service
	ctx.Log = e.log
	ctx.Out = os.Stdout
	return ctx, e, nil
}

type adminGamesCmd struct {
	Official string `help:"Only list games with this official, as written in the schedule (\"Last, First\")."`
}

func (a *adminGamesCmd) Run(g *globalCmd) error {
	ctx, e, err := adminContext(context.Background(), g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.Official = a.Official
	return admin.LsGames(ctx)
}

type assignCmd struct {
	DryRun       bool             `help:"Validate and print the changes without writing."`
	ID           string           `arg:"" help:"Schedule document ID of the game." required:""`
	Referee1     string           `help:"New first referee (\"Last, First\")."`
	Referee2     string           `help:"New second referee (\"Last, First\")."`
	Linesperson1 string           `help:"New first linesperson (\"Last, First\")."`
	Linesperson2 string           `help:"New second linesperson (\"Last, First\")."`
	Clear        []firestore.Slot `help:"Slots to empty. Saving will fail unless they are filled again."`
}

func (a *assignCmd) Run(g *globalCmd) error {
	ctx, e, err := adminContext(context.Background(), g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.DryRun = a.DryRun
	ctx.ID = a.ID
	for slot, name := range map[firestore.Slot]string{
		firestore.Referee1:     a.Referee1,
		firestore.Referee2:     a.Referee2,
		firestore.Linesperson1: a.Linesperson1,
		firestore.Linesperson2: a.Linesperson2,
	} {
		if name != "" {
			ctx.Changes[slot] = name
		}
	}
	for _, slot := range a.Clear {
		ctx.Changes[slot] = ""
	}
	return admin.Assign(ctx)
}

type editGameCmd struct {
	DryRun bool   `help:"Validate and print the changes without writing."`
	ID     string `arg:"" help:"Schedule document ID of the game." required:""`
}

func (a *editGameCmd) Run(g *globalCmd) error {
	ctx, e, err := adminContext(context.Background(), g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.DryRun = a.DryRun
	ctx.ID = a.ID
	return admin.EditGame(ctx)
}

type watchCmd struct{}

func (a *watchCmd) Run(g *globalCmd) error {
	parent, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, e, err := adminContext(parent, g)
	if err != nil {
		return err
	}
	defer e.Close()
	return admin.Watch(ctx)
}

type exportCmd struct {
	DryRun     bool   `help:"Print rows instead of writing a workbook."`
	NoProgress bool   `help:"Hide the progress bar."`
	Output     string `arg:"" optional:"" help:"Local path or gs://bucket/object URL to write. Rows are printed if omitted."`
}

func (a *exportCmd) Run(g *globalCmd) error {
	ctx, e, err := adminContext(context.Background(), g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.DryRun = a.DryRun
	ctx.NoProgress = a.NoProgress
	ctx.Output = a.Output
	return admin.Export(ctx)
}

type warmCmd struct {
	NoProgress bool `help:"Hide the progress bar."`
}

func (a *warmCmd) Run(g *globalCmd) error {
	ctx, e, err := adminContext(context.Background(), g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.NoProgress = a.NoProgress
	return admin.Warm(ctx)
}
