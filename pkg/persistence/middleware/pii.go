package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/ports"
	"github.com/mohae/deepcopy"
)

// Mask replaces the value of every masked field.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks, before saving, the values of fields whose name
// matches one of the patterns, at any depth. Masked values cannot be loaded back.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, formID string, snap *domain.Snapshot) error {
	// the caller keeps its unmasked snapshot
	cloned := deepcopy.Copy(snap).(*domain.Snapshot)
	maskMap(cloned.Value, m.patterns)
	return m.next.Save(ctx, formID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, formID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, formID)
}

func (m *piiMiddleware) Delete(ctx context.Context, formID string) error {
	return m.next.Delete(ctx, formID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if matchesAny(k, patterns) {
			m[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
		}
	}
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
