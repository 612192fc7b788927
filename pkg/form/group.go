package form

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/mitchellh/mapstructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry names a child node of a group.
type Entry struct {
	Name string
	Node Node
}

// Named is shorthand for Entry{Name: name, Node: n}.
func Named(name string, n Node) Entry {
	return Entry{Name: name, Node: n}
}

// Group is a composite node holding an ordered, fixed set of named children.
type Group struct {
	Base
	fields   *orderedmap.OrderedMap[string, Node]
	last     any // last announced aggregate
	suppress bool
}

// NewGroup creates a group over fields, which keep their order. Each child gets
// its parent and name assigned exactly once; a node already owned by another
// group is rejected.
//
// WithValue (or, failing that, WithOriginalValue) is applied over the children's
// own values. Without WithOriginalValue the original value is the aggregate at
// the end of construction.
//
// When construction fails the children are released and can be placed in
// another group, but writes already applied to them by the initial value are
// kept.
func NewGroup(fields []Entry, opts ...Option) (g *Group, err error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	var initial any
	applyInitial := cfg.hasValue || (cfg.hasOriginal && !cfg.keepValues)
	if applyInitial {
		initial = cfg.original
		if cfg.hasValue && cfg.value != nil {
			initial = cfg.value
		}
		if _, err := plainMap(initial); err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
	}

	created := &Group{fields: orderedmap.New[string, Node](len(fields))}
	created.init(created, cfg)
	g = created

	defer func() {
		if err != nil {
			for _, e := range fields {
				if b := e.Node.base(); b.attached && b.Parent() == created {
					b.detach()
				}
			}
		}
	}()

	for _, e := range fields {
		if err := e.Node.base().attach(g, e.Name); err != nil {
			return nil, err
		}
		g.fields.Set(e.Name, e.Node)
	}
	g.last = snapshot(g.Value())

	if applyInitial {
		if err := g.SetValue(cfg.ctx, initial); err != nil {
			return nil, err
		}
	}

	if cfg.hasOriginal {
		g.original = snapshot(cfg.original)
	} else {
		g.original = snapshot(g.Value())
	}

	if err := g.registry.TriggerEager(cfg.ctx, g, g.Value(), g.original); err != nil {
		return nil, err
	}
	return g, nil
}

// MustGroup is NewGroup that panics on error.
func MustGroup(fields []Entry, opts ...Option) *Group {
	g, err := NewGroup(fields, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

func validateFields(fields []Entry) error {
	seen := make(map[string]bool, len(fields))
	for i, e := range fields {
		if e.Name == "" {
			return fmt.Errorf("%w: entry %d has no name", domain.ErrInvalidFields, i)
		}
		if strings.Contains(e.Name, ".") {
			return fmt.Errorf("%w: name %q contains a path separator", domain.ErrInvalidFields, e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: duplicate name %q", domain.ErrInvalidFields, e.Name)
		}
		seen[e.Name] = true

		if !isNode(e.Node) {
			return fmt.Errorf("%w: %q is not a form node", domain.ErrInvalidFields, e.Name)
		}
		if e.Node.base().attached {
			return fmt.Errorf("%w: %q", domain.ErrAlreadyAttached, e.Name)
		}
	}
	return nil
}

func isNode(n Node) bool {
	if n == nil {
		return false
	}
	if rv := reflect.ValueOf(n); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}
	return n.base().self != nil
}

// Register appends actions to the group's registry.
func (g *Group) Register(as ...actions.Action[Node]) *Group {
	g.registry.Register(as...)
	return g
}

// Field returns the child called name, or nil.
func (g *Group) Field(name string) Node {
	n, _ := g.fields.Get(name)
	return n
}

// Fields returns the children in declaration order.
func (g *Group) Fields() []Entry {
	out := make([]Entry, 0, g.fields.Len())
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Entry{Name: pair.Key, Node: pair.Value})
	}
	return out
}

// Len returns the number of children.
func (g *Group) Len() int { return g.fields.Len() }

// Find resolves a dot-separated path relative to the group.
func (g *Group) Find(path string) (Node, error) {
	if path == "" {
		return g, nil
	}
	var cur Node = g
	for _, part := range strings.Split(path, ".") {
		grp, ok := cur.(*Group)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrFieldNotFound, path)
		}
		next := grp.Field(part)
		if next == nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrFieldNotFound, path)
		}
		cur = next
	}
	return cur, nil
}

// Value aggregates the children in order. A child contributes when it is
// enabled, or when it is a group with a non-empty aggregate of its own. An
// aggregate without keys is reported as nil.
func (g *Group) Value() any {
	out := make(map[string]any, g.fields.Len())
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		n := pair.Value
		v := n.Value()
		if n.Enabled() {
			out[pair.Key] = v
			continue
		}
		if _, ok := n.(*Group); ok && v != nil {
			out[pair.Key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FullValue serializes every child regardless of enabled state.
func (g *Group) FullValue() any {
	out := make(map[string]any, g.fields.Len())
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value.FullValue()
	}
	return out
}

// SetValue assigns every child named in v, in declaration order, one at a time,
// then announces the result once. A nil v clears every child. Children that
// fail stop the assignment and the error is returned without a notification.
func (g *Group) SetValue(ctx context.Context, v any) error {
	values, err := plainMap(v)
	if err != nil {
		return fmt.Errorf("group %q: %w", g.Path(), err)
	}

	prev := g.suppress
	g.suppress = true
	err = g.assign(ctx, values)
	g.suppress = prev
	if err != nil {
		return err
	}
	return g.NotifyValueChanged(ctx)
}

func (g *Group) assign(ctx context.Context, values map[string]any) error {
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		if values == nil {
			if err := pair.Value.SetValue(ctx, nil); err != nil {
				return err
			}
			continue
		}
		if sub, ok := values[pair.Key]; ok {
			if err := pair.Value.SetValue(ctx, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// NotifyValueChanged recomputes the aggregate and, when it differs from the last
// announced one, fires ValueChanged and propagates to the parent. It does
// nothing while a bulk assignment is in progress.
func (g *Group) NotifyValueChanged(ctx context.Context) error {
	if g.suppress {
		return nil
	}
	nv := g.Value()
	if equal(nv, g.last) {
		return nil
	}
	old := g.last
	g.last = snapshot(nv)
	g.logger.Debug("group value changed", "path", g.Path())

	if err := g.registry.Trigger(ctx, domain.ValueChanged, g, nv, old); err != nil {
		return err
	}
	return g.notifyParent(ctx)
}

// Validate validates the children in order, then the group itself.
func (g *Group) Validate(ctx context.Context) error {
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.Validate(ctx); err != nil {
			return err
		}
	}
	return g.Base.Validate(ctx)
}

// Clone deep-clones every child into a new group. Errors, enabled, visibility
// and the original value are carried over unless overridden; registries are not.
// The children keep their cloned values: an overriding WithOriginalValue only
// replaces the original, use WithValue to replace values.
func (g *Group) Clone(opts ...Option) (Node, error) {
	entries := make([]Entry, 0, g.fields.Len())
	for pair := g.fields.Oldest(); pair != nil; pair = pair.Next() {
		c, err := pair.Value.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone %q: %w", pair.Key, err)
		}
		entries = append(entries, Entry{Name: pair.Key, Node: c})
	}

	base := []Option{
		WithEnabled(g.enabled),
		WithVisibility(g.visibility),
		WithErrors(g.errors...),
		WithLogger(g.logger),
		WithOriginalValue(g.original),
		keepChildValues(),
	}
	c, err := NewGroup(entries, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// plainMap accepts nil, string-keyed maps and structs (decoded through
// mapstructure). Nodes are rejected: a group is set from data, not structure.
func plainMap(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Node:
		return nil, domain.ErrStructuredData
	case map[string]any:
		return t, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	case rv.Kind() == reflect.Struct:
		var out map[string]any
		if err := mapstructure.Decode(rv.Interface(), &out); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidValue, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a mapping, got %T", domain.ErrInvalidValue, v)
	}
}
