package form_test

import (
	"context"
	"sync"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
)

// spy records the arguments of every dispatch it sees.
type spy struct {
	mu    sync.Mutex
	calls [][]any
}

func (s *spy) action(kind domain.ActionKind) actions.Action[form.Node] {
	return form.Listen(kind, func(ctx context.Context, n form.Node, args ...any) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls = append(s.calls, args)
		return nil
	})
}

func (s *spy) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *spy) last() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

func field(v any, opts ...form.Option) *form.Field {
	return form.MustField(append([]form.Option{form.WithValue(v)}, opts...)...)
}
