package definition

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/registry"
	"github.com/aretw0/formstate/pkg/rules"
)

// Option configures Build.
type Option func(*builder)

type builder struct {
	common   []form.Option
	root     []form.Option
	handlers *registry.Registry
}

// WithLogger makes every node of the tree report to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.common = append(b.common, form.WithLogger(logger))
	}
}

// WithRegistry resolves the handler names of action specs against r.
func WithRegistry(r *registry.Registry) Option {
	return func(b *builder) {
		b.handlers = r
	}
}

// WithRootOptions applies opts to the root group only.
func WithRootOptions(opts ...form.Option) Option {
	return func(b *builder) {
		b.root = append(b.root, opts...)
	}
}

// Build creates a fresh tree for the definition.
func Build(def *Definition, opts ...Option) (*form.Group, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	entries, err := b.buildFields(def.Fields)
	if err != nil {
		return nil, err
	}
	return form.NewGroup(entries, append(append([]form.Option{}, b.common...), b.root...)...)
}

func (b *builder) buildFields(specs []FieldSpec) ([]form.Entry, error) {
	entries := make([]form.Entry, 0, len(specs))
	for _, s := range specs {
		n, err := b.buildNode(s)
		if err != nil {
			return nil, fmt.Errorf("build %q: %w", s.Name, err)
		}
		entries = append(entries, form.Named(s.Name, n))
	}
	return entries, nil
}

func (b *builder) buildNode(s FieldSpec) (form.Node, error) {
	opts := append([]form.Option{}, b.common...)
	if s.Enabled != nil {
		opts = append(opts, form.WithEnabled(*s.Enabled))
	}
	vis, err := domain.ParseVisibility(s.Visibility)
	if err != nil {
		return nil, err
	}
	opts = append(opts, form.WithVisibility(vis))

	rs, err := rules.ParseAll(s.Rules)
	if err != nil {
		return nil, err
	}
	if len(rs) > 0 {
		opts = append(opts, form.WithValidators(form.Rules(rs...)))
	}
	if s.OriginalValue != nil {
		opts = append(opts, form.WithOriginalValue(s.OriginalValue))
	}

	switch s.EffectiveKind() {
	case domain.KindAction:
		switch {
		case s.Label != "" || s.Icon != "":
			opts = append(opts, form.WithValue(domain.ActionValue{Label: s.Label, Icon: s.Icon}))
		case s.Value != nil:
			opts = append(opts, form.WithValue(s.Value))
		}
		if s.Handler != "" {
			if b.handlers == nil {
				return nil, fmt.Errorf("%w: handler %q without a registry", domain.ErrInvalidDefinition, s.Handler)
			}
			if _, ok := b.handlers.Lookup(s.Handler); !ok {
				return nil, fmt.Errorf("%w: unknown handler %q", domain.ErrInvalidDefinition, s.Handler)
			}
			opts = append(opts, form.WithActions(b.handlers.Bind(s.Handler)))
		}
		return form.NewAction(opts...)
	case domain.KindGroup:
		children, err := b.buildFields(s.Fields)
		if err != nil {
			return nil, err
		}
		if s.Value != nil {
			opts = append(opts, form.WithValue(s.Value))
		}
		return form.NewGroup(children, opts...)
	default:
		if s.Value != nil {
			opts = append(opts, form.WithValue(s.Value))
		}
		return form.NewField(opts...)
	}
}
