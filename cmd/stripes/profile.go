package main

import (
	"context"
	"os"

	"github.com/reallyasi9/stripes/internal/tools/profile"
)

func profileContext(g *globalCmd) (*profile.Context, *env, error) {
	ctx := profile.NewContext(context.Background())
	e, err := g.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	ctx.Session, err = g.signIn(ctx, e)
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	ctx.Service = e.service
	ctx.Links = e.cfg.Links
	ctx.Log = e.log
	ctx.Out = os.Stdout
	return ctx, e, nil
}

type showProfileCmd struct{}

func (a *showProfileCmd) Run(g *globalCmd) error {
	ctx, e, err := profileContext(g)
	if err != nil {
		return err
	}
	defer e.Close()
	return profile.ShowProfile(ctx)
}

type updateProfileCmd struct {
	DryRun bool   `help:"Print database writes to log and exit without writing."`
	Email  string `help:"New email address."`
	Phone  string `help:"New phone number."`
}

func (a *updateProfileCmd) Run(g *globalCmd) error {
	ctx, e, err := profileContext(g)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx.DryRun = a.DryRun
	ctx.Email = a.Email
	ctx.Phone = a.Phone
	return profile.UpdateProfile(ctx)
}
