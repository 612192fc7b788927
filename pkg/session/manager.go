package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/formstate/internal/logging"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Factory builds a fresh tree for a form ID.
type Factory func(ctx context.Context, formID string) (*form.Group, error)

// SetupFunc runs on every tree after its snapshot was restored, typically to
// register handlers (metrics, logging, business actions).
type SetupFunc func(formID string, g *form.Group) error

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates form access, ensuring safe concurrent operations.
// Unused locks are garbage collected through reference counting.
type Manager struct {
	store   ports.SnapshotStore
	factory Factory
	setup   []SetupFunc

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks (default DefaultLockTTL).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSetup appends setup hooks, run in order.
func WithSetup(fns ...SetupFunc) Option {
	return func(m *Manager) {
		m.setup = append(m.setup, fns...)
	}
}

// NewManager creates a Manager persisting to store and building trees with factory.
func NewManager(store ports.SnapshotStore, factory Factory, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		factory: factory,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(formID) after unlocking.
func (m *Manager) acquire(formID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[formID]
	if !exists {
		entry = &lockEntry{}
		m.locks[formID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(formID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[formID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, formID)
	}
}

// WithLock executes fn while holding the lock for the form.
func (m *Manager) WithLock(ctx context.Context, formID string, fn func(context.Context) error) error {
	entry := m.acquire(formID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(formID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, formID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"form_id", formID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// open builds the tree for formID and restores the stored snapshot, if any.
// Must run under the form lock.
func (m *Manager) open(ctx context.Context, formID string) (*form.Group, error) {
	g, err := m.factory(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to build form %q: %w", formID, err)
	}

	snap, err := m.store.Load(ctx, formID)
	switch {
	case errors.Is(err, domain.ErrFormNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load form %q: %w", formID, err)
	default:
		if err := form.Restore(ctx, g, snap); err != nil {
			return nil, err
		}
	}

	for _, fn := range m.setup {
		if err := fn(formID, g); err != nil {
			return nil, fmt.Errorf("form %q setup: %w", formID, err)
		}
	}
	return g, nil
}

// View opens the form and passes it to fn without saving. Forms that were
// never saved are presented with their built-in values.
func (m *Manager) View(ctx context.Context, formID string, fn func(g *form.Group) error) error {
	return m.WithLock(ctx, formID, func(ctx context.Context) error {
		g, err := m.open(ctx, formID)
		if err != nil {
			return err
		}
		return fn(g)
	})
}

// Update opens the form, applies fn, validates the whole tree and saves it.
// Nothing is saved when fn fails. The returned snapshot is the saved one.
func (m *Manager) Update(ctx context.Context, formID string, fn func(ctx context.Context, g *form.Group) error) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, formID, func(ctx context.Context) error {
		g, err := m.open(ctx, formID)
		if err != nil {
			return err
		}
		if err := fn(ctx, g); err != nil {
			return err
		}
		if err := g.Validate(ctx); err != nil {
			return fmt.Errorf("failed to validate form %q: %w", formID, err)
		}

		snap = form.Capture(formID, g)
		if err := m.store.Save(ctx, formID, snap); err != nil {
			return fmt.Errorf("failed to save form %q: %w", formID, err)
		}
		m.logger.Debug("form saved", "form_id", formID, "changed", snap.Changed, "errors", len(snap.Errors))
		return nil
	})
	return snap, err
}

// SetValue bulk-assigns value to the form and saves it.
func (m *Manager) SetValue(ctx context.Context, formID string, value any) (*domain.Snapshot, error) {
	return m.Update(ctx, formID, func(ctx context.Context, g *form.Group) error {
		return g.SetValue(ctx, value)
	})
}

// Execute runs the action at path with params and saves the form, since
// execution handlers may change other nodes.
func (m *Manager) Execute(ctx context.Context, formID, path string, params any) (*domain.Snapshot, error) {
	return m.Update(ctx, formID, func(ctx context.Context, g *form.Group) error {
		n, err := g.Find(path)
		if err != nil {
			return err
		}
		a, ok := n.(*form.Action)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrNotAction, path)
		}
		return a.Execute(ctx, params)
	})
}

// Load returns the stored snapshot without building the tree.
func (m *Manager) Load(ctx context.Context, formID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, formID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, formID)
		return err
	})
	return snap, err
}

// Delete removes the stored form.
func (m *Manager) Delete(ctx context.Context, formID string) error {
	return m.WithLock(ctx, formID, func(ctx context.Context) error {
		return m.store.Delete(ctx, formID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}
