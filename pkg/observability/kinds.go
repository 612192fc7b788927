package observability

import (
	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
)

// Kinds is the set of event kinds instrumented by default.
var Kinds = []domain.ActionKind{
	domain.ValueChanged,
	domain.VisibilityChanged,
	domain.EnabledChanged,
	domain.ExecuteAction,
	domain.Validate,
}

// wrap registers, on every node under root, one handler per kind built by mk.
func wrap(root form.Node, kinds []domain.ActionKind, mk func(kind domain.ActionKind) actions.Handler[form.Node]) error {
	return form.Walk(root, func(n form.Node) error {
		for _, kind := range kinds {
			n.Actions().Register(form.On(kind, mk(kind)))
		}
		return nil
	})
}
