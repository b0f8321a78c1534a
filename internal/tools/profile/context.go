package profile

import (
	"context"
	"io"

	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/session"
	"github.com/rs/zerolog"
)

type Context struct {
	context.Context

	DryRun  bool
	Service *assign.Service
	Session session.Session
	Links   []agenda.Link
	Log     zerolog.Logger
	Out     io.Writer

	Email string
	Phone string
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, Links: agenda.DefaultLinks, Log: zerolog.Nop(), Out: io.Discard}
}
