package registry

import (
	"context"
	"fmt"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
)

// Names of the handlers installed by Builtins.
const (
	HandlerReset    = "reset"
	HandlerValidate = "validate"
	HandlerAssign   = "assign"
)

// Builtins returns a registry with the standard handlers. Each one acts on the
// group that owns the executed action:
//
//	reset     restores the group's original value
//	validate  re-runs validation over the group
//	assign    writes params into the group like SetValue
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(HandlerReset, func(ctx context.Context, action form.Node, _ any) error {
		g, err := owner(action)
		if err != nil {
			return err
		}
		return g.SetValue(ctx, g.OriginalValue())
	})
	r.Register(HandlerValidate, func(ctx context.Context, action form.Node, _ any) error {
		g, err := owner(action)
		if err != nil {
			return err
		}
		return g.Validate(ctx)
	})
	r.Register(HandlerAssign, func(ctx context.Context, action form.Node, params any) error {
		g, err := owner(action)
		if err != nil {
			return err
		}
		if params == nil {
			return fmt.Errorf("%w: assign needs params", domain.ErrInvalidValue)
		}
		return g.SetValue(ctx, params)
	})
	return r
}

func owner(action form.Node) (*form.Group, error) {
	g := action.Parent()
	if g == nil {
		return nil, fmt.Errorf("%w: action %q has no group", domain.ErrInvalidValue, action.Path())
	}
	return g, nil
}
