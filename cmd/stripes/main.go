package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type globalCmd struct {
	ProjectID   string `name:"project" help:"GCP project ID. Falls back to the config file." env:"GCP_PROJECT"`
	Credentials string `help:"Service account or user credentials file." env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Cache       string `help:"Path to the local cache database. Defaults to the config file setting."`
	Config      string `help:"YAML configuration file." env:"STRIPES_CONFIG"`
	UID         string `name:"uid" help:"Act as the principal with this user ID." env:"STRIPES_UID" xor:"principal"`
	IDToken     string `name:"id-token" help:"Act as the principal identified by this Firebase ID token." env:"STRIPES_ID_TOKEN" xor:"principal"`
	Offline     string `help:"Serve documents from this YAML fixture instead of Firestore. Writes are not persisted."`
	Verbose     bool   `short:"v" help:"Log debug messages."`
}

func (g *globalCmd) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if g.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

var CLI struct {
	globalCmd

	Games struct {
		Ls       lsGamesCmd  `cmd:"" default:"1" help:"List your games."`
		Show     showGameCmd `cmd:"" help:"Show one game with its teams, crew, and report links."`
		Calendar calendarCmd `cmd:"" help:"List your games by day."`
	} `cmd:"" help:"Your assignments."`

	Profile struct {
		Show   showProfileCmd   `cmd:"" default:"1" help:"Show your roster record and reference links."`
		Update updateProfileCmd `cmd:"" help:"Change your email or phone number."`
	} `cmd:"" help:"Your roster record."`

	Admin struct {
		Games  adminGamesCmd `cmd:"" help:"List every game."`
		Assign assignCmd     `cmd:"" help:"Change the officials on a game."`
		Edit   editGameCmd   `cmd:"" help:"Change the officials on a game interactively."`
		Watch  watchCmd      `cmd:"" help:"Follow the schedule live."`
		Export exportCmd     `cmd:"" help:"Write every game to an Excel workbook."`
		Warm   warmCmd       `cmd:"" help:"Cache every game and roster record for offline use."`
	} `cmd:"" help:"Schedule administration. Requires the admin role."`

	Reads struct {
		Show  showReadsCmd  `cmd:"" default:"1" help:"Show how many Firestore documents this client has read."`
		Reset resetReadsCmd `cmd:"" help:"Reset the read count to zero."`
	} `cmd:"" help:"Firestore read telemetry."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger := zerolog.New(os.Stderr)
		logger.Warn().Err(err).Msg("could not load .env file")
	}

	ctx := kong.Parse(&CLI,
		kong.Name("stripes"),
		kong.Description("Stripes: look up and manage officiating assignments."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}
