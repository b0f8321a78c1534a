// Package reads reports how many documents this client has read from the remote store.
package reads

import (
	"context"
	"fmt"
	"io"

	"github.com/reallyasi9/stripes/internal/telemetry"
)

type Context struct {
	context.Context

	Counter *telemetry.Counter
	Out     io.Writer
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, Out: io.Discard}
}

func ShowReads(ctx *Context) error {
	fmt.Fprintf(ctx.Out, "Firestore reads: %d\n", ctx.Counter.Read())
	return nil
}

func ResetReads(ctx *Context) error {
	ctx.Counter.Reset()
	fmt.Fprintln(ctx.Out, "Firestore reads: 0")
	return nil
}
