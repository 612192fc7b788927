package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aretw0/formstate/pkg/domain"
)

// SkipChildren can be returned by a Walk callback to skip a group's children.
var SkipChildren = errors.New("skip children")

// Walk visits n and its descendants depth-first, parents before children.
func Walk(n Node, fn func(n Node) error) error {
	if err := fn(n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	g, ok := n.(*Group)
	if !ok {
		return nil
	}
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := Walk(pair.Value, fn); err != nil {
			return err
		}
	}
	return nil
}

// ErrorsByPath collects the non-empty error lists of a subtree keyed by their
// path relative to n. The errors of n itself are stored under "".
func ErrorsByPath(n Node) map[string][]string {
	out := make(map[string][]string)
	prefix := n.Path()
	_ = Walk(n, func(c Node) error {
		if errs := c.Errors(); len(errs) > 0 {
			out[relPath(prefix, c.Path())] = errs
		}
		return nil
	})
	return out
}

func relPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == prefix {
		return ""
	}
	return strings.TrimPrefix(path, prefix+".")
}

// Valid reports whether no node in the subtree carries errors.
func Valid(n Node) bool {
	return len(ErrorsByPath(n)) == 0
}

// FromData builds a flat group with one field per key of data, in key order.
// Passing a node instead of data is an error.
func FromData(data any, opts ...Option) (*Group, error) {
	values, err := plainMap(data)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		f, err := NewField(WithValue(values[k]))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		entries = append(entries, Named(k, f))
	}
	return NewGroup(entries, opts...)
}

// KindOf names the node type ("field", "action" or "group").
func KindOf(n Node) string {
	switch n.(type) {
	case *Group:
		return domain.KindGroup
	case *Action:
		return domain.KindAction
	case *Field:
		return domain.KindField
	default:
		return reflect.TypeOf(n).String()
	}
}
