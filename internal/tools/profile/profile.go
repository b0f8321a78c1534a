package profile

import (
	"fmt"

	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/tools/render"
)

func ShowProfile(ctx *Context) error {
	if ctx.Session.Member == nil {
		return firestore.NotFoundError(fmt.Sprintf("no roster member for principal \"%s\"", ctx.Session.Principal.UID))
	}
	render.Member(ctx.Out, *ctx.Session.Member, ctx.Session.Role)
	fmt.Fprintln(ctx.Out)
	render.Links(ctx.Out, ctx.Links)
	return nil
}

// UpdateProfile replaces the official's email and phone number. Values not given are kept.
func UpdateProfile(ctx *Context) error {
	m := ctx.Session.Member
	if m == nil {
		return firestore.NotFoundError(fmt.Sprintf("no roster member for principal \"%s\"", ctx.Session.Principal.UID))
	}
	if ctx.Email == "" && ctx.Phone == "" {
		return fmt.Errorf("UpdateProfile: at least one of email or phone must be specified")
	}
	email, phone := m.Email, m.PhoneNumber
	if ctx.Email != "" {
		email = ctx.Email
	}
	if ctx.Phone != "" {
		phone = ctx.Phone
	}

	if ctx.DryRun {
		ctx.Log.Info().Str("email", email).Str("phone", phone).Msgf("DRY RUN: would update profile of %s", m.MatchName())
		return nil
	}

	if err := ctx.Service.UpdateProfile(ctx, ctx.Session.Principal, email, phone); err != nil {
		return fmt.Errorf("UpdateProfile: %w", err)
	}
	m.Email = email
	m.PhoneNumber = phone
	render.Member(ctx.Out, *m, ctx.Session.Role)
	return nil
}
