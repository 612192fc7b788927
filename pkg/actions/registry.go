package actions

import (
	"context"
	"sync"

	"github.com/aretw0/formstate/pkg/domain"
)

// Next continues the chain with the previously registered handler.
type Next func(ctx context.Context, args ...any) error

// Handler intercepts one event of a kind on a node of type N.
type Handler[N any] func(ctx context.Context, node N, next Next, args ...any) error

// Action is a handler tagged with the kind it listens to.
// Eager actions additionally run once when the owning node finishes construction.
type Action[N any] struct {
	Kind    domain.ActionKind
	Handler Handler[N]
	Eager   bool
}

// New creates a lazy action for the given kind.
func New[N any](kind domain.ActionKind, h Handler[N]) Action[N] {
	return Action[N]{Kind: kind, Handler: h}
}

// NewEager creates an action that also fires on construction-complete.
func NewEager[N any](kind domain.ActionKind, h Handler[N]) Action[N] {
	return Action[N]{Kind: kind, Handler: h, Eager: true}
}

// Registry is the ordered collection of actions owned by a single node.
// Safe for concurrent registration; dispatch works on a snapshot.
type Registry[N any] struct {
	mu      sync.RWMutex
	entries []Action[N]
}

// Register appends actions in the order given. Actions without a handler are ignored.
func (r *Registry[N]) Register(actions ...Action[N]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range actions {
		if a.Handler == nil {
			continue
		}
		r.entries = append(r.entries, a)
	}
}

// Len returns the number of handlers registered for kind.
func (r *Registry[N]) Len(kind domain.ActionKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, a := range r.entries {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Kinds returns the registered kinds in first-registration order.
func (r *Registry[N]) Kinds() []domain.ActionKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return kindsOf(r.entries)
}

// Trigger dispatches kind on node. The newest handler runs first.
func (r *Registry[N]) Trigger(ctx context.Context, kind domain.ActionKind, node N, args ...any) error {
	handlers := r.handlersFor(kind)
	return newChain(node, handlers).call(len(handlers)-1)(ctx, args...)
}

// TriggerEager dispatches, kind by kind, the chains formed by eager actions only.
// It stops at the first failing chain.
func (r *Registry[N]) TriggerEager(ctx context.Context, node N, args ...any) error {
	r.mu.RLock()
	var eager []Action[N]
	for _, a := range r.entries {
		if a.Eager {
			eager = append(eager, a)
		}
	}
	r.mu.RUnlock()

	for _, kind := range kindsOf(eager) {
		var handlers []Handler[N]
		for _, a := range eager {
			if a.Kind == kind {
				handlers = append(handlers, a.Handler)
			}
		}
		if err := newChain(node, handlers).call(len(handlers)-1)(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry[N]) handlersFor(kind domain.ActionKind) []Handler[N] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handler[N]
	for _, a := range r.entries {
		if a.Kind == kind {
			out = append(out, a.Handler)
		}
	}
	return out
}

func kindsOf[N any](entries []Action[N]) []domain.ActionKind {
	seen := make(map[domain.ActionKind]bool)
	var kinds []domain.ActionKind
	for _, a := range entries {
		if !seen[a.Kind] {
			seen[a.Kind] = true
			kinds = append(kinds, a.Kind)
		}
	}
	return kinds
}
