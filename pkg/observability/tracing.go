package observability

import (
	"context"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of the spans.
const TracerName = "github.com/aretw0/formstate"

// Tracer opens a span around every dispatch on instrumented trees.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer uses tp, or the global provider when tp is nil.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

// Instrument registers the tracing handlers on every node of the tree.
func (t *Tracer) Instrument(root form.Node) error {
	return wrap(root, Kinds, t.handler)
}

// Setup adapts Instrument to session setup hooks.
func (t *Tracer) Setup(formID string, g *form.Group) error {
	return t.Instrument(g)
}

func (t *Tracer) handler(kind domain.ActionKind) actions.Handler[form.Node] {
	name := "formstate." + string(kind)
	return func(ctx context.Context, n form.Node, next actions.Next, args ...any) error {
		ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("formstate.path", n.Path()),
			attribute.String("formstate.node_kind", form.KindOf(n)),
		))
		defer span.End()

		err := next(ctx, args...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}
