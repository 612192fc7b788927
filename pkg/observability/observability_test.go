package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/formstate/internal/logging"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/observability"
	"github.com/aretw0/formstate/pkg/rules"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func sample() *form.Group {
	return form.MustGroup([]form.Entry{
		form.Named("a", form.MustField(form.WithValue("x"), form.WithValidators(form.Rule(rules.Required())))),
		form.Named("b", form.MustField(form.WithValue(2))),
	})
}

func TestMetrics_Instrument(t *testing.T) {
	m := observability.NewMetrics()
	g := sample()
	require.NoError(t, m.Instrument(g))
	ctx := context.Background()

	require.NoError(t, g.Field("a").SetValue(ctx, ""))

	// the leaf and its group both announce the change
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Dispatched(domain.ValueChanged)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatched(domain.Validate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures("a")))

	require.NoError(t, g.Field("a").SetValue(ctx, "y"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures("a")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Dispatched(domain.Validate)))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	g := sample()
	require.NoError(t, m.Setup("f", g))
	require.NoError(t, g.SetValue(context.Background(), map[string]any{"b": 3}))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `formstate_actions_dispatched_total{kind="value_changed"} 2`)
	assert.Contains(t, rec.Body.String(), "formstate_action_chain_duration_seconds")
}

func TestMetrics_KeepsChainBehaviour(t *testing.T) {
	m := observability.NewMetrics()
	boom := errors.New("boom")
	f := form.MustField(form.WithActions(form.Listen(domain.ExecuteAction, func(ctx context.Context, n form.Node, args ...any) error {
		return boom
	})))
	g := form.MustGroup([]form.Entry{form.Named("f", f)})
	require.NoError(t, m.Instrument(g))

	assert.ErrorIs(t, f.Actions().Trigger(context.Background(), domain.ExecuteAction, f), boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatched(domain.ExecuteAction)))
}

func TestTracer_Instrument(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := observability.NewTracer(tp)

	g := sample()
	boom := errors.New("boom")
	g.Field("b").Actions().Register(form.Listen(domain.ValueChanged, func(ctx context.Context, n form.Node, args ...any) error {
		return boom
	}))
	require.NoError(t, tr.Setup("f", g))
	ctx := context.Background()

	require.NoError(t, g.Field("a").SetValue(ctx, "y"))

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"formstate.value_changed", "formstate.value_changed", "formstate.validate"}, names)

	assert.ErrorIs(t, g.Field("b").SetValue(ctx, 5), boom)
	spans := sr.Ended()
	last := spans[len(spans)-1]
	assert.Equal(t, codes.Error, last.Status().Code)
	assert.Equal(t, "formstate.value_changed", last.Name())
}

func TestLogChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo, logging.FormatText)
	g := sample()
	require.NoError(t, observability.ChangeLogger(logger)("signup", g))

	require.NoError(t, g.Field("b").SetValue(context.Background(), 7))

	out := buf.String()
	assert.Contains(t, out, "value changed")
	assert.Contains(t, out, "form_id=signup")
	assert.Contains(t, out, "path=b")
	assert.Contains(t, out, "new=7")
	assert.Contains(t, out, "old=2")
}
