package games

import (
	"context"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/session"
	"github.com/rs/zerolog"
)

type Context struct {
	context.Context

	Engine  *aggregate.Engine
	Session session.Session
	Clock   clockwork.Clock
	Links   agenda.Links
	Log     zerolog.Logger
	Out     io.Writer

	// ID is the schedule document to show.
	ID string
	// Upcoming limits listings to today's game and the next few.
	Upcoming bool
	// UpcomingCount is how many upcoming games to list.
	UpcomingCount int
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, Clock: clockwork.NewRealClock(), Links: agenda.NewLinks(), Log: zerolog.Nop(), Out: io.Discard}
}
