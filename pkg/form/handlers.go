package form

import (
	"context"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/rules"
)

// On builds an action of kind for form nodes.
func On(kind domain.ActionKind, h actions.Handler[Node]) actions.Action[Node] {
	return actions.New(kind, h)
}

// Eager builds an action that also fires when its node finishes construction.
func Eager(kind domain.ActionKind, h actions.Handler[Node]) actions.Action[Node] {
	return actions.NewEager(kind, h)
}

// Listen builds an action that runs fn and then always continues the chain.
// An error from fn stops the chain and is returned to the trigger.
func Listen(kind domain.ActionKind, fn func(ctx context.Context, n Node, args ...any) error) actions.Action[Node] {
	return actions.New(kind, func(ctx context.Context, n Node, next actions.Next, args ...any) error {
		if err := fn(ctx, n, args...); err != nil {
			return err
		}
		return next(ctx, args...)
	})
}

// Validator wraps check into a validation action. A failing check records its
// message on the node; the chain continues either way.
func Validator(check func(value any) error) actions.Action[Node] {
	return actions.New(domain.Validate, func(ctx context.Context, n Node, next actions.Next, args ...any) error {
		if err := check(n.Value()); err != nil {
			n.AddError(err.Error())
		}
		return next(ctx, args...)
	})
}

// Rule is a Validator for a single rule.
func Rule(r rules.Rule) actions.Action[Node] {
	return Validator(r.Validate)
}

// Rules runs all rs in one validator and records every failure.
func Rules(rs ...rules.Rule) actions.Action[Node] {
	return actions.New(domain.Validate, func(ctx context.Context, n Node, next actions.Next, args ...any) error {
		for _, err := range rules.ValidationErrors(rules.Check(n.Value(), rs...)) {
			n.AddError(err.Error())
		}
		return next(ctx, args...)
	})
}
