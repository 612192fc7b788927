package form

import (
	"context"
	"log/slog"

	"github.com/aretw0/formstate/internal/logging"
	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
)

// Option configures a node at construction (and clone) time.
type Option func(*config)

type config struct {
	value       any
	hasValue    bool
	original    any
	hasOriginal bool
	keepValues  bool
	enabled     *bool
	visibility  domain.Visibility
	errors      []string
	validators  []actions.Action[Node]
	actions     []actions.Action[Node]
	logger      *slog.Logger
	ctx         context.Context
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	return cfg
}

// WithValue sets the initial value.
func WithValue(v any) Option {
	return func(c *config) {
		c.value = v
		c.hasValue = true
	}
}

// WithOriginalValue sets the value IsChanged compares against.
// Without it, the original value is the value at the end of construction.
func WithOriginalValue(v any) Option {
	return func(c *config) {
		c.original = v
		c.hasOriginal = true
	}
}

// keepChildValues stops a group from applying its original value to the
// children when no WithValue is given. Used by Clone.
func keepChildValues() Option {
	return func(c *config) {
		c.keepValues = true
	}
}

// WithEnabled sets the enabled flag (default true).
func WithEnabled(enabled bool) Option {
	return func(c *config) {
		c.enabled = &enabled
	}
}

// WithVisibility sets the visibility (default domain.Visible).
func WithVisibility(v domain.Visibility) Option {
	return func(c *config) {
		c.visibility = v
	}
}

// WithErrors replaces the initial error list.
func WithErrors(errs ...string) Option {
	return func(c *config) {
		c.errors = errs
	}
}

// WithValidators registers validators, in order, before any WithActions entry.
func WithValidators(vs ...actions.Action[Node]) Option {
	return func(c *config) {
		c.validators = append(c.validators, vs...)
	}
}

// WithActions registers actions in order.
func WithActions(as ...actions.Action[Node]) Option {
	return func(c *config) {
		c.actions = append(c.actions, as...)
	}
}

// WithLogger sets the logger used to report fire-and-forget failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithContext sets the context used by construction-time dispatch (eager actions
// and the initial value override).
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}
