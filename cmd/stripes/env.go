package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/reallyasi9/stripes/internal/access"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/assign"
	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/config"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/reallyasi9/stripes/internal/memstore"
	"github.com/reallyasi9/stripes/internal/session"
	"github.com/reallyasi9/stripes/internal/telemetry"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// store is everything the commands need from a document store.
type store interface {
	aggregate.Store
	assign.Store
	SetObserver(firestore.ReadObserver)
}

// env is the wiring shared by every command.
type env struct {
	log     zerolog.Logger
	cfg     config.Config
	store   store
	cache   *cache.Bolt
	counter *telemetry.Counter
	engine  *aggregate.Engine
	service *assign.Service
	gate    *access.Gate

	closers []func() error
}

// open loads configuration, opens the cache, and connects to the store.
// Callers must Close the returned env.
func (g *globalCmd) open(ctx context.Context) (*env, error) {
	e := &env{log: g.logger()}

	var err error
	e.cfg, err = config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	cachePath := g.Cache
	if cachePath == "" {
		cachePath = e.cfg.CachePath
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o700); err != nil {
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}
	e.cache, err = cache.OpenBolt(cachePath)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, e.cache.Close)
	e.log.Debug().Str("path", cachePath).Msg("cache opened")

	e.counter = telemetry.NewCounter(e.cache, e.log)

	if g.Offline != "" {
		fixture, err := memstore.LoadFixture(g.Offline)
		if err != nil {
			e.Close()
			return nil, err
		}
		s, err := memstore.NewFromFixture(fixture)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.store = s
		e.log.Warn().Str("fixture", g.Offline).Msg("offline: changes will not be saved")
	} else {
		project := g.ProjectID
		if project == "" {
			project = e.cfg.Project
		}
		if project == "" {
			e.Close()
			return nil, fmt.Errorf("no GCP project given: use --project, GCP_PROJECT, or the config file")
		}
		var opts []option.ClientOption
		if g.Credentials != "" {
			opts = append(opts, option.WithCredentialsFile(g.Credentials))
		}
		c, err := firestore.NewClient(ctx, project, opts...)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.store = c
		e.closers = append(e.closers, c.Close)
	}
	e.store.SetObserver(e.counter)

	e.engine = aggregate.New(e.store, e.cache, aggregate.WithLogger(e.log))
	e.service = assign.NewService(e.store, e.cache, e.log)
	e.gate = access.NewGate(e.store, e.log)
	return e, nil
}

// signIn resolves the principal from the global flags and opens their session.
func (g *globalCmd) signIn(ctx context.Context, e *env) (session.Session, error) {
	var p auth.Principal
	switch {
	case g.IDToken != "":
		project := g.ProjectID
		if project == "" {
			project = e.cfg.Project
		}
		v := auth.NewVerifier(project, auth.NewHTTPKeys(), clockwork.NewRealClock())
		var err error
		p, err = v.Verify(ctx, g.IDToken)
		if err != nil {
			return session.Session{}, err
		}
	case g.UID != "":
		p = auth.Principal{UID: g.UID}
	default:
		return session.Session{}, fmt.Errorf("no principal given: use --uid or --id-token: %w", auth.ErrSignedOut)
	}

	provider := auth.NewLocal()
	m := session.NewManager(e.store, e.gate, e.log)
	stop := m.Watch(ctx, provider)
	defer stop()
	provider.SignIn(p)
	return m.Current()
}

// Close releases everything open opened, in reverse order.
func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}
