package formstate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/formstate/internal/logging"
	"github.com/aretw0/formstate/pkg/adapters/memory"
	"github.com/aretw0/formstate/pkg/definition"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/observability"
	"github.com/aretw0/formstate/pkg/persistence/middleware"
	"github.com/aretw0/formstate/pkg/ports"
	"github.com/aretw0/formstate/pkg/registry"
	"github.com/aretw0/formstate/pkg/session"
)

// Version is the release of the library and its binaries.
var Version = "0.1.0"

// Engine is the high-level entry point for the library.
// It binds one form definition to a snapshot store and serves every form
// instance (one per form ID) built from that definition.
type Engine struct {
	def     *definition.Definition
	manager *session.Manager

	store       ports.SnapshotStore
	middlewares []middleware.Middleware
	locker      ports.DistributedLocker
	setup       []session.SetupFunc
	metrics     *observability.Metrics
	tracer      *observability.Tracer
	changeLog   bool
	handlers    *registry.Registry
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the snapshot store (default: in-memory).
func WithStore(store ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMiddleware wraps the store; the first middleware is the outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// WithLocker enables distributed locking of form instances.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithSetup registers hooks run on every opened form tree.
func WithSetup(fns ...session.SetupFunc) Option {
	return func(e *Engine) {
		e.setup = append(e.setup, fns...)
	}
}

// WithMetrics instruments every opened tree with Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer wraps every opened tree's handler chains in spans.
func WithTracer(t *observability.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithChangeLog logs every value change at info level.
func WithChangeLog() Option {
	return func(e *Engine) {
		e.changeLog = true
	}
}

// WithHandlers sets the registry that action handler names resolve against
// (default: registry.Builtins()).
func WithHandlers(r *registry.Registry) Option {
	return func(e *Engine) {
		e.handlers = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine for def.
func New(def *definition.Definition, opts ...Option) (*Engine, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: definition is nil", domain.ErrInvalidDefinition)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	eng := &Engine{def: def, Name: def.ID}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("form", eng.Name)
	}
	if eng.handlers == nil {
		eng.handlers = registry.Builtins()
	}
	// Fails early on unknown handler names.
	if _, err := eng.factory(context.Background(), ""); err != nil {
		return nil, err
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	eng.store = middleware.Chain(eng.store, eng.middlewares...)

	var setup []session.SetupFunc
	if eng.metrics != nil {
		setup = append(setup, eng.metrics.Setup)
	}
	if eng.tracer != nil {
		setup = append(setup, eng.tracer.Setup)
	}
	if eng.changeLog {
		setup = append(setup, observability.ChangeLogger(eng.logger))
	}
	setup = append(setup, eng.setup...)

	managerOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithSetup(setup...),
	}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	eng.manager = session.NewManager(eng.store, eng.factory, managerOpts...)

	return eng, nil
}

// NewFromFile loads a YAML or JSON definition and initializes an Engine.
// The file name (without extension) names the engine when the definition has no ID.
func NewFromFile(path string, opts ...Option) (*Engine, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	if def.ID == "" {
		def.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return New(def, opts...)
}

func (e *Engine) factory(ctx context.Context, formID string) (*form.Group, error) {
	return definition.Build(e.def,
		definition.WithLogger(e.logger.With("form_id", formID)),
		definition.WithRegistry(e.handlers),
	)
}

// NewForm builds a fresh, unsaved tree from the definition. Setup hooks are not applied.
func (e *Engine) NewForm(ctx context.Context) (*form.Group, error) {
	return e.factory(ctx, "")
}

// Definition returns the definition the engine serves.
func (e *Engine) Definition() *definition.Definition {
	return e.def
}

// Manager returns the session manager serializing access to form instances.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Store returns the (middleware-wrapped) snapshot store.
func (e *Engine) Store() ports.SnapshotStore {
	return e.store
}

// View opens the form instance and passes it to fn without saving.
func (e *Engine) View(ctx context.Context, formID string, fn func(g *form.Group) error) error {
	return e.manager.View(ctx, formID, fn)
}

// Update applies fn to the form instance, validates it and saves it.
func (e *Engine) Update(ctx context.Context, formID string, fn func(ctx context.Context, g *form.Group) error) (*domain.Snapshot, error) {
	return e.manager.Update(ctx, formID, fn)
}

// SetValue bulk-assigns value to the form instance and saves it.
func (e *Engine) SetValue(ctx context.Context, formID string, value any) (*domain.Snapshot, error) {
	return e.manager.SetValue(ctx, formID, value)
}

// Execute runs the action at path and saves the form instance.
func (e *Engine) Execute(ctx context.Context, formID, path string, params any) (*domain.Snapshot, error) {
	return e.manager.Execute(ctx, formID, path, params)
}

// Load returns the stored snapshot of the form instance.
func (e *Engine) Load(ctx context.Context, formID string) (*domain.Snapshot, error) {
	return e.manager.Load(ctx, formID)
}

// Delete removes the stored form instance.
func (e *Engine) Delete(ctx context.Context, formID string) error {
	return e.manager.Delete(ctx, formID)
}

// List returns the IDs of stored form instances.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.manager.List(ctx)
}
