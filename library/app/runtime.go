package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-borrow-desk/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/config"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/openlibrary"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/password"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

var ErrUnknownJournalDriver = errors.New("unknown journal driver")

// Runtime holds everything Open created. Close releases it in reverse order.
type Runtime struct {
	Config       config.Config
	Dependencies Dependencies
	Handlers     *Handlers
	// JWT is nil when no signing secret is configured.
	JWT *session.JWTIssuer

	closers []func() error
}

type OpenOption func(*openOptions)

type openOptions struct {
	persistentSession bool
}

// WithPersistentSession restores and keeps the session in the SQLite file of the config.
func WithPersistentSession() OpenOption {
	return func(o *openOptions) {
		o.persistentSession = true
	}
}

// Open builds the runtime described by cfg. logger must not be nil.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...OpenOption) (*Runtime, error) {
	var options openOptions
	for _, opt := range opts {
		opt(&options)
	}

	rt := &Runtime{Config: cfg}

	deps := Dependencies{
		Stores: mockapi.NewStores(
			cfg.MockAPI.BooksBaseURL,
			cfg.MockAPI.AccountsBaseURL,
			cfg.MockAPI.RequestsBaseURL,
			mockapi.WithHTTPClient(mockapi.NewHTTPClient(cfg.MockAPI.Timeout.Std())),
			mockapi.WithLogger(logger),
		),
		Covers: openlibrary.NewClient(
			cfg.OpenLibrary.BaseURL,
			cfg.OpenLibrary.CoversBaseURL,
			openlibrary.WithTimeout(cfg.OpenLibrary.Timeout.Std()),
			openlibrary.WithLogger(logger),
		),
		ClaimTTL: cfg.Journal.ClaimTTL.Std(),
		RetryOptions: []shell.RetryOption{
			shell.WithMaxAttempts(cfg.Retry.MaxAttempts),
			shell.WithBaseDelay(cfg.Retry.BaseDelay.Std()),
			shell.WithJitterFactor(cfg.Retry.Jitter),
		},
		Logger: logger,
	}

	if cfg.Observability.Enabled {
		name := cfg.Observability.ServiceName
		deps.ContextualLogger = oteladapters.NewSlogBridgeLogger(name)
		deps.MetricsCollector = oteladapters.NewMetricsCollector(otel.GetMeterProvider().Meter(name))
		deps.TracingCollector = oteladapters.NewTracingCollector(otel.GetTracerProvider().Tracer(name))
	}

	hasher, err := password.ForScheme(cfg.Auth.PasswordScheme)
	if err != nil {
		return nil, err
	}
	deps.Hasher = hasher

	if cfg.Auth.JWTSecret != "" {
		issuer, err := session.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL.Std(), cfg.Auth.Issuer)
		if err != nil {
			return nil, err
		}
		rt.JWT = &issuer
		deps.Issuer = issuer
	}

	journal, closeJournal, err := openJournal(ctx, cfg.Journal, deps)
	if err != nil {
		return nil, err
	}
	deps.Journal = journal
	rt.closers = append(rt.closers, closeJournal)

	if options.persistentSession {
		store, err := session.OpenSQLiteStore(ctx, cfg.Session.Path)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, store.Close)

		manager, err := session.NewManager(ctx, store, session.WithLogger(logger))
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		deps.Sessions = manager
	}

	handlers, err := NewHandlers(deps)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.Dependencies = deps
	rt.Handlers = handlers

	return rt, nil
}

func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil

	return errors.Join(errs...)
}

func openJournal(ctx context.Context, cfg config.JournalConfig, deps Dependencies) (shell.EventStore, func() error, error) {
	noop := func() error { return nil }

	if cfg.Driver == config.DriverMemory {
		return memoryengine.NewEventStore(memoryengine.WithLogger(deps.Logger)), noop, nil
	}

	engineOptions := []postgresengine.Option{
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLogger(deps.Logger),
	}
	if deps.ContextualLogger != nil {
		engineOptions = append(engineOptions, postgresengine.WithContextualLogger(deps.ContextualLogger))
	}
	if deps.MetricsCollector != nil {
		engineOptions = append(engineOptions, postgresengine.WithMetrics(deps.MetricsCollector))
	}
	if deps.TracingCollector != nil {
		engineOptions = append(engineOptions, postgresengine.WithTracing(deps.TracingCollector))
	}

	var (
		journal  *postgresengine.EventStore
		closeDB  func() error
		openErr  error
		buildErr error
	)

	switch cfg.Driver {
	case config.DriverPGX:
		pool, err := cfg.OpenPGXPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		closeDB = func() error { pool.Close(); return nil }
		journal, buildErr = postgresengine.NewEventStoreFromPGXPool(pool, engineOptions...)

	case config.DriverSQL:
		db, err := cfg.OpenSQLDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		closeDB = db.Close
		journal, buildErr = postgresengine.NewEventStoreFromSQLDB(db, engineOptions...)

	case config.DriverSQLX:
		db, err := cfg.OpenSQLX(ctx)
		if err != nil {
			return nil, nil, err
		}
		closeDB = db.Close
		journal, buildErr = postgresengine.NewEventStoreFromSQLX(db, engineOptions...)

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownJournalDriver, cfg.Driver)
	}

	if buildErr == nil {
		openErr = journal.EnsureSchema(ctx)
	}

	if err := errors.Join(buildErr, openErr); err != nil {
		_ = closeDB()
		return nil, nil, err
	}

	return journal, closeDB, nil
}
