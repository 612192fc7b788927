package form

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"weak"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
)

// Node is the contract shared by fields, actions and groups.
// It is sealed: only types embedding Base and built by this package satisfy it.
type Node interface {
	// Value returns the visible value of the node.
	Value() any
	// FullValue returns the unconditional value, disabled descendants included.
	FullValue() any
	// SetValue replaces the value and waits for the whole notification chain.
	SetValue(ctx context.Context, v any) error
	// Set is the fire-and-forget form of SetValue. Failures are logged.
	Set(v any)

	OriginalValue() any
	IsChanged() bool

	Enabled() bool
	SetEnabled(ctx context.Context, enabled bool) error
	Visibility() domain.Visibility
	SetVisibility(ctx context.Context, v domain.Visibility) error

	Errors() []string
	SetErrors(errs []string)
	AddError(msg string)
	Validate(ctx context.Context) error

	// Parent returns the owning group, or nil for a root.
	Parent() *Group
	// FieldName returns the name under which the parent holds this node.
	FieldName() string
	// Path returns the dot-separated path from the root ("" for the root).
	Path() string

	Actions() *actions.Registry[Node]
	Clone(opts ...Option) (Node, error)

	base() *Base
}

// Base carries the state common to every node. It is embedded by Field, Action
// and Group and is only usable once initialised by their constructors.
type Base struct {
	self       Node
	enabled    bool
	visibility domain.Visibility
	errors     []string
	original   any
	parent     weak.Pointer[Group]
	attached   bool
	name       string
	registry   actions.Registry[Node]
	logger     *slog.Logger
}

func (b *Base) base() *Base { return b }

func (b *Base) init(self Node, cfg *config) {
	b.self = self
	b.enabled = true
	if cfg.enabled != nil {
		b.enabled = *cfg.enabled
	}
	b.visibility = domain.Visible
	if cfg.visibility != "" {
		b.visibility = cfg.visibility
	}
	b.errors = slices.Clone(cfg.errors)
	b.logger = cfg.logger
	b.registry.Register(cfg.validators...)
	b.registry.Register(cfg.actions...)
}

// attach records the owning group. It succeeds once per node lifetime.
func (b *Base) attach(parent *Group, name string) error {
	if b.attached {
		return fmt.Errorf("%w: %q", domain.ErrAlreadyAttached, b.Path())
	}
	b.attached = true
	b.parent = weak.Make(parent)
	b.name = name
	return nil
}

// detach undoes attach for a group that failed to construct.
func (b *Base) detach() {
	b.attached = false
	b.parent = weak.Pointer[Group]{}
	b.name = ""
}

func (b *Base) Parent() *Group { return b.parent.Value() }

func (b *Base) FieldName() string { return b.name }

func (b *Base) Path() string {
	p := b.Parent()
	if p == nil {
		return b.name
	}
	if pp := p.Path(); pp != "" {
		return pp + "." + b.name
	}
	return b.name
}

func (b *Base) Actions() *actions.Registry[Node] { return &b.registry }

func (b *Base) Enabled() bool { return b.enabled }

// SetEnabled toggles the node. A real change fires EnabledChanged and makes the
// parent recompute its aggregate, which depends on enabled children.
func (b *Base) SetEnabled(ctx context.Context, enabled bool) error {
	if b.enabled == enabled {
		return nil
	}
	old := b.enabled
	b.enabled = enabled
	if err := b.registry.Trigger(ctx, domain.EnabledChanged, b.self, enabled, old); err != nil {
		return err
	}
	return b.notifyParent(ctx)
}

func (b *Base) Visibility() domain.Visibility { return b.visibility }

// SetVisibility fires VisibilityChanged on a real change.
func (b *Base) SetVisibility(ctx context.Context, v domain.Visibility) error {
	if b.visibility == v {
		return nil
	}
	old := b.visibility
	b.visibility = v
	return b.registry.Trigger(ctx, domain.VisibilityChanged, b.self, v, old)
}

func (b *Base) Errors() []string { return slices.Clone(b.errors) }

func (b *Base) SetErrors(errs []string) { b.errors = slices.Clone(errs) }

func (b *Base) AddError(msg string) { b.errors = append(b.errors, msg) }

// Validate clears the errors and runs the Validate chain with the current value.
func (b *Base) Validate(ctx context.Context) error {
	b.errors = nil
	return b.registry.Trigger(ctx, domain.Validate, b.self, b.self.Value())
}

func (b *Base) OriginalValue() any { return b.original }

func (b *Base) IsChanged() bool { return !equal(b.self.Value(), b.original) }

// Set runs SetValue without a caller to report to; failures go to the node logger.
func (b *Base) Set(v any) {
	if err := b.self.SetValue(context.Background(), v); err != nil {
		b.logger.Error("value update failed", "path", b.Path(), "err", err)
	}
}

// Logger returns the structured logger the node reports to.
func (b *Base) Logger() *slog.Logger { return b.logger }

func (b *Base) notifyParent(ctx context.Context) error {
	if p := b.Parent(); p != nil {
		return p.NotifyValueChanged(ctx)
	}
	return nil
}

// cloneOptions reproduces the node's state as options; overrides win.
func (b *Base) cloneOptions(value any, overrides []Option) []Option {
	opts := []Option{
		WithValue(snapshot(value)),
		WithOriginalValue(b.original),
		WithEnabled(b.enabled),
		WithVisibility(b.visibility),
		WithErrors(b.errors...),
		WithLogger(b.logger),
	}
	return append(opts, overrides...)
}
