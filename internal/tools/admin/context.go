package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/reallyasi9/stripes/internal/access"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/session"
	"github.com/rs/zerolog"
)

type Context struct {
	context.Context

	DryRun     bool
	NoProgress bool
	Engine     *aggregate.Engine
	Service    *assign.Service
	Session    session.Session
	Log        zerolog.Logger
	Out        io.Writer

	// ID is the schedule document to change.
	ID string
	// Changes are the slot assignments to commit.
	Changes assign.ChangeSet
	// Official limits game listings to one official's name.
	Official string
	// Output is a local path or gs://bucket/object URL for exports.
	Output string
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, Log: zerolog.Nop(), Out: io.Discard, Changes: make(assign.ChangeSet)}
}

func requireAdmin(ctx *Context, op string) error {
	if !ctx.Session.IsAdmin() {
		return fmt.Errorf("%s: principal \"%s\": %w", op, ctx.Session.Principal.UID, access.ErrAccessDenied)
	}
	return nil
}
