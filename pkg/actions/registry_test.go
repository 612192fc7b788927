package actions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct{ name string }

func recorder(calls *[]string, label string) actions.Handler[*node] {
	return func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		*calls = append(*calls, label)
		return next(ctx, args...)
	}
}

func TestRegistry_LIFOOrder(t *testing.T) {
	var reg actions.Registry[*node]
	var calls []string

	reg.Register(
		actions.New(domain.ValueChanged, recorder(&calls, "first")),
		actions.New(domain.ValueChanged, recorder(&calls, "second")),
		actions.New(domain.VisibilityChanged, recorder(&calls, "visibility")),
	)

	err := reg.Trigger(context.Background(), domain.ValueChanged, &node{name: "n"}, "new", "old")
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestRegistry_ShortCircuit(t *testing.T) {
	var reg actions.Registry[*node]
	firstCalled := false

	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		firstCalled = true
		return next(ctx, args...)
	}))
	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		return nil // veto
	}))

	require.NoError(t, reg.Trigger(context.Background(), domain.ValueChanged, &node{}))
	assert.False(t, firstCalled, "older handler must be skipped when the newer one does not call next")
}

func TestRegistry_ArgumentsForwarded(t *testing.T) {
	var reg actions.Registry[*node]
	var seen []any
	target := &node{name: "target"}

	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		assert.Same(t, target, n)
		seen = args
		return next(ctx, args...)
	}))
	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		return next(ctx, "rewritten", args[1])
	}))

	require.NoError(t, reg.Trigger(context.Background(), domain.ValueChanged, target, "new", "old"))
	assert.Equal(t, []any{"rewritten", "old"}, seen)
}

func TestRegistry_EmptyKindSucceeds(t *testing.T) {
	var reg actions.Registry[*node]
	assert.NoError(t, reg.Trigger(context.Background(), domain.ExecuteAction, &node{}))
	assert.Equal(t, 0, reg.Len(domain.ExecuteAction))
}

func TestRegistry_ErrorsPropagate(t *testing.T) {
	var reg actions.Registry[*node]
	boom := errors.New("boom")
	var calls []string

	reg.Register(actions.New(domain.ValueChanged, recorder(&calls, "first")))
	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		return boom
	}))

	err := reg.Trigger(context.Background(), domain.ValueChanged, &node{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, calls)
}

func TestRegistry_CancelledContextStopsChain(t *testing.T) {
	var reg actions.Registry[*node]
	var calls []string
	reg.Register(actions.New(domain.ValueChanged, recorder(&calls, "first")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := reg.Trigger(ctx, domain.ValueChanged, &node{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestRegistry_TriggerEager(t *testing.T) {
	var reg actions.Registry[*node]
	var calls []string

	reg.Register(
		actions.New(domain.ValueChanged, recorder(&calls, "lazy")),
		actions.NewEager(domain.ValueChanged, recorder(&calls, "eager-value-1")),
		actions.NewEager(domain.VisibilityChanged, recorder(&calls, "eager-visibility")),
		actions.NewEager(domain.ValueChanged, recorder(&calls, "eager-value-2")),
	)

	require.NoError(t, reg.TriggerEager(context.Background(), &node{}, "v", "o"))
	assert.Equal(t, []string{"eager-value-2", "eager-value-1", "eager-visibility"}, calls)
	assert.Equal(t, []domain.ActionKind{domain.ValueChanged, domain.VisibilityChanged}, reg.Kinds())
}

func TestRegistry_RegistrationDuringDispatchNotVisible(t *testing.T) {
	var reg actions.Registry[*node]
	var calls []string

	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n *node, next actions.Next, args ...any) error {
		calls = append(calls, "outer")
		reg.Register(actions.New(domain.ValueChanged, recorder(&calls, "late")))
		return next(ctx, args...)
	}))

	require.NoError(t, reg.Trigger(context.Background(), domain.ValueChanged, &node{}))
	assert.Equal(t, []string{"outer"}, calls)
	assert.Equal(t, 2, reg.Len(domain.ValueChanged))
}

func TestRegistry_NilHandlerIgnored(t *testing.T) {
	var reg actions.Registry[*node]
	reg.Register(actions.Action[*node]{Kind: domain.ValueChanged})
	assert.Equal(t, 0, reg.Len(domain.ValueChanged))
}
