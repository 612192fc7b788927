package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/formstate"
	"github.com/aretw0/formstate/pkg/observability"
)

// App is the engine wired with the configured backend and observability.
type App struct {
	Engine  *formstate.Engine
	Metrics *observability.Metrics
	Backend *Backend
	Logger  *slog.Logger

	shutdownTracing func(context.Context) error
}

// NewApp loads the definition at defPath and wires the engine from cfg.
// Tracing is set up only when traced is true.
func NewApp(ctx context.Context, defPath string, cfg Config, logger *slog.Logger, traced bool) (*App, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}
	mws, err := Middlewares(cfg)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	app := &App{
		Metrics:         observability.NewMetrics(),
		Backend:         backend,
		Logger:          logger,
		shutdownTracing: func(context.Context) error { return nil },
	}

	opts := append(backend.Options(),
		formstate.WithMiddleware(mws...),
		formstate.WithLogger(logger),
		formstate.WithMetrics(app.Metrics),
	)
	if traced {
		shutdown, err := SetupTracing(ctx, cfg)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("setup tracing: %w", err)
		}
		app.shutdownTracing = shutdown
		opts = append(opts, formstate.WithTracer(observability.NewTracer(nil)))
	}

	eng, err := formstate.NewFromFile(defPath, opts...)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Engine = eng
	logger.Debug("engine ready", "definition", defPath, "store", cfg.Store, "middlewares", len(mws))
	return app, nil
}

// Close flushes traces and closes the backend.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.shutdownTracing(ctx), a.Backend.Close())
}
