package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
)

// LogChanges builds an action that logs every value change it sees.
func LogChanges(logger *slog.Logger) actions.Action[form.Node] {
	return form.Listen(domain.ValueChanged, func(ctx context.Context, n form.Node, args ...any) error {
		var nv, old any
		if len(args) > 0 {
			nv = args[0]
		}
		if len(args) > 1 {
			old = args[1]
		}
		logger.InfoContext(ctx, "value changed",
			"path", n.Path(),
			"kind", form.KindOf(n),
			"new", nv,
			"old", old,
		)
		return nil
	})
}

// ChangeLogger returns a session setup hook registering LogChanges on every node.
func ChangeLogger(logger *slog.Logger) func(formID string, g *form.Group) error {
	return func(formID string, g *form.Group) error {
		l := logger.With("form_id", formID)
		return form.Walk(g, func(n form.Node) error {
			n.Actions().Register(LogChanges(l))
			return nil
		})
	}
}
