package form

import (
	"context"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
)

// Field is a leaf holding an opaque value.
type Field struct {
	Base
	value any
}

// NewField creates a field. Without WithValue the field starts at its original
// value; without WithOriginalValue the original value is the initial value.
func NewField(opts ...Option) (*Field, error) {
	cfg := newConfig(opts)
	f := &Field{}
	f.init(f, cfg)

	switch {
	case cfg.hasValue:
		f.value = cfg.value
	case cfg.hasOriginal:
		f.value = snapshot(cfg.original)
	}
	if cfg.hasOriginal {
		f.original = snapshot(cfg.original)
	} else {
		f.original = snapshot(f.value)
	}

	if err := f.registry.TriggerEager(cfg.ctx, f, f.value, f.original); err != nil {
		return nil, err
	}
	return f, nil
}

// MustField is NewField that panics on error. Intended for static form layouts.
func MustField(opts ...Option) *Field {
	f, err := NewField(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Register appends actions to the field's registry.
func (f *Field) Register(as ...actions.Action[Node]) *Field {
	f.registry.Register(as...)
	return f
}

func (f *Field) Value() any { return f.value }

func (f *Field) FullValue() any { return f.value }

// SetValue replaces the value, fires ValueChanged, lets the parent recompute and
// validates. Every write on an enabled field goes through all three steps, even
// when the value did not change. Writes on a disabled field are ignored.
func (f *Field) SetValue(ctx context.Context, v any) error {
	if !f.enabled {
		return nil
	}
	old := f.value
	f.value = v
	if err := f.registry.Trigger(ctx, domain.ValueChanged, f, v, old); err != nil {
		return err
	}
	if err := f.notifyParent(ctx); err != nil {
		return err
	}
	return f.Validate(ctx)
}

// Clone returns an independent, detached copy without registered actions.
func (f *Field) Clone(opts ...Option) (Node, error) {
	return NewField(f.cloneOptions(f.value, opts)...)
}
