// Package registry maps handler names to action implementations so that
// declarative definitions can bind behaviour to action nodes by name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
)

// ErrHandlerNotFound is returned when a name has no registered handler.
var ErrHandlerNotFound = errors.New("handler not found")

// HandlerFunc runs when a bound action is executed. action is the executed
// node and params whatever Execute received.
type HandlerFunc func(ctx context.Context, action form.Node, params any) error

// Registry holds the named handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a handler. An existing handler with the same name is replaced.
func (r *Registry) Register(name string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = fn
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[name]
	return fn, ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Execute runs the handler registered under name.
func (r *Registry) Execute(ctx context.Context, name string, action form.Node, params any) error {
	fn, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, name)
	}
	return fn(ctx, action, params)
}

// Bind returns an ExecuteAction listener that runs the named handler. The name
// is resolved when the action fires, so handlers may be registered later.
func (r *Registry) Bind(name string) actions.Action[form.Node] {
	return form.Listen(domain.ExecuteAction, func(ctx context.Context, n form.Node, args ...any) error {
		var params any
		if len(args) > 0 {
			params = args[0]
		}
		return r.Execute(ctx, name, n, params)
	})
}
