package form

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Action is a leaf whose value is a command descriptor (label, icon) and which
// can be executed.
type Action struct {
	Base
	value domain.ActionValue
}

// NewAction creates an action node. An empty value defers to the original value
// and an empty original value defers to the value.
func NewAction(opts ...Option) (*Action, error) {
	cfg := newConfig(opts)
	a := &Action{}
	a.init(a, cfg)

	val, err := toActionValue(cfg.value)
	if err != nil {
		return nil, err
	}
	org, err := toActionValue(cfg.original)
	if err != nil {
		return nil, err
	}
	a.value = val.Or(org)
	a.original = org.Or(val)

	if err := a.registry.TriggerEager(cfg.ctx, a, a.value, a.original); err != nil {
		return nil, err
	}
	return a, nil
}

// MustAction is NewAction that panics on error.
func MustAction(opts ...Option) *Action {
	a, err := NewAction(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Register appends actions to the node's registry.
func (a *Action) Register(as ...actions.Action[Node]) *Action {
	a.registry.Register(as...)
	return a
}

func (a *Action) Value() any { return a.value }

func (a *Action) FullValue() any { return a.value }

// Descriptor returns the typed value.
func (a *Action) Descriptor() domain.ActionValue { return a.value }

func (a *Action) Label() string { return a.value.Label }

func (a *Action) Icon() string { return a.value.Icon }

// SetValue accepts a domain.ActionValue, a pointer to one, a map with label/icon
// keys or nil. Writes on a disabled action are ignored.
func (a *Action) SetValue(ctx context.Context, v any) error {
	if !a.enabled {
		return nil
	}
	nv, err := toActionValue(v)
	if err != nil {
		return fmt.Errorf("action %q: %w", a.Path(), err)
	}
	old := a.value
	a.value = nv
	if err := a.registry.Trigger(ctx, domain.ValueChanged, a, nv, old); err != nil {
		return err
	}
	if err := a.notifyParent(ctx); err != nil {
		return err
	}
	return a.Validate(ctx)
}

func (a *Action) SetLabel(ctx context.Context, label string) error {
	return a.SetValue(ctx, domain.ActionValue{Label: label, Icon: a.value.Icon})
}

func (a *Action) SetIcon(ctx context.Context, icon string) error {
	return a.SetValue(ctx, domain.ActionValue{Label: a.value.Label, Icon: icon})
}

// Execute fans params out to the ExecuteAction chain. It neither changes the
// value nor validates.
func (a *Action) Execute(ctx context.Context, params any) error {
	return a.registry.Trigger(ctx, domain.ExecuteAction, a, params)
}

// Clone returns an independent, detached copy without registered actions.
func (a *Action) Clone(opts ...Option) (Node, error) {
	return NewAction(a.cloneOptions(a.value, opts)...)
}

func toActionValue(v any) (domain.ActionValue, error) {
	switch t := v.(type) {
	case nil:
		return domain.ActionValue{}, nil
	case domain.ActionValue:
		return t, nil
	case *domain.ActionValue:
		if t == nil {
			return domain.ActionValue{}, nil
		}
		return *t, nil
	}

	if reflect.ValueOf(v).Kind() != reflect.Map {
		return domain.ActionValue{}, fmt.Errorf("%w: expected action descriptor, got %T", domain.ErrInvalidValue, v)
	}
	var out domain.ActionValue
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &out,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.ActionValue{}, err
	}
	if err := dec.Decode(v); err != nil {
		return domain.ActionValue{}, fmt.Errorf("%w: %v", domain.ErrInvalidValue, err)
	}
	return out, nil
}
