package form_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(a, b any, opts ...form.Option) *form.Group {
	return form.MustGroup([]form.Entry{
		form.Named("a", field(a)),
		form.Named("b", field(b)),
	}, opts...)
}

func TestGroup_Value(t *testing.T) {
	g := pair(1, 2)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.Value())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.FullValue())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.OriginalValue())
	assert.False(t, g.IsChanged())
	assert.Equal(t, 2, g.Len())
}

func TestGroup_DisabledChildrenAreHidden(t *testing.T) {
	g := form.MustGroup([]form.Entry{
		form.Named("a", field(1)),
		form.Named("b", field(2, form.WithEnabled(false))),
	})
	assert.Equal(t, map[string]any{"a": 1}, g.Value())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.FullValue())
}

func TestGroup_AllDisabledIsNil(t *testing.T) {
	g := form.MustGroup([]form.Entry{
		form.Named("a", field(1, form.WithEnabled(false))),
		form.Named("b", field(2, form.WithEnabled(false))),
	})
	assert.Nil(t, g.Value())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.FullValue())

	empty := form.MustGroup(nil)
	assert.Nil(t, empty.Value())
	assert.Equal(t, map[string]any{}, empty.FullValue())
}

func TestGroup_DisabledSubgroupSurfacesEnabledDescendants(t *testing.T) {
	inner := form.MustGroup([]form.Entry{form.Named("x", field(1))}, form.WithEnabled(false))
	hollow := form.MustGroup([]form.Entry{form.Named("y", field(2, form.WithEnabled(false)))}, form.WithEnabled(false))
	outer := form.MustGroup([]form.Entry{
		form.Named("inner", inner),
		form.Named("hollow", hollow),
	})

	assert.Equal(t, map[string]any{"inner": map[string]any{"x": 1}}, outer.Value())
}

func TestGroup_BulkSetNotifiesOnce(t *testing.T) {
	var s spy
	g := pair(1, 2, form.WithActions(s.action(domain.ValueChanged)))

	require.NoError(t, g.SetValue(context.Background(), map[string]any{"a": 5, "b": 6}))
	assert.Equal(t, 1, s.count())
	assert.Equal(t, []any{map[string]any{"a": 5, "b": 6}, map[string]any{"a": 1, "b": 2}}, s.last())
}

func TestGroup_PartialSetKeepsOtherChildren(t *testing.T) {
	var s spy
	g := pair(1, 2, form.WithActions(s.action(domain.ValueChanged)))

	require.NoError(t, g.SetValue(context.Background(), map[string]any{"a": 5}))
	assert.Equal(t, map[string]any{"a": 5, "b": 2}, g.Value())
	assert.Equal(t, 1, s.count())
	assert.True(t, g.IsChanged())
}

func TestGroup_UnknownKeysAreIgnored(t *testing.T) {
	g := pair(1, 2)
	require.NoError(t, g.SetValue(context.Background(), map[string]any{"zzz": 9}))
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.Value())
}

func TestGroup_EqualSetDoesNotNotify(t *testing.T) {
	var s spy
	g := pair(1, []any{"x"}, form.WithActions(s.action(domain.ValueChanged)))

	require.NoError(t, g.SetValue(context.Background(), map[string]any{"a": 1, "b": []any{"x"}}))
	assert.Equal(t, 0, s.count())
}

func TestGroup_JSONDecodedEqualSetDoesNotNotify(t *testing.T) {
	var s spy
	g := form.MustGroup([]form.Entry{
		form.Named("a", field(1)),
		form.Named("b", field([]int{2, 3})),
		form.Named("c", field(map[string]int{"d": 4})),
	}, form.WithActions(s.action(domain.ValueChanged)))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":[2,3],"c":{"d":4}}`), &body))
	require.NoError(t, g.SetValue(context.Background(), body))

	assert.Equal(t, 0, s.count())
	assert.False(t, g.IsChanged())
	assert.False(t, g.Field("a").IsChanged())

	require.NoError(t, g.SetValue(context.Background(), map[string]any{"a": 1.5}))
	assert.Equal(t, 1, s.count())
	assert.True(t, g.IsChanged())
}

func TestGroup_NilClearsChildren(t *testing.T) {
	g := pair(1, 2)
	require.NoError(t, g.SetValue(context.Background(), nil))
	assert.Equal(t, map[string]any{"a": nil, "b": nil}, g.Value())
}

func TestGroup_SetFromStruct(t *testing.T) {
	type input struct {
		A int `mapstructure:"a"`
	}
	g := pair(1, 2)
	require.NoError(t, g.SetValue(context.Background(), input{A: 7}))
	assert.Equal(t, 7, g.Field("a").Value())
	assert.Equal(t, 2, g.Field("b").Value())

	require.NoError(t, g.SetValue(context.Background(), map[string]int{"b": 8}))
	assert.Equal(t, 8, g.Field("b").Value())
}

func TestGroup_SetValueRejectsNodesAndScalars(t *testing.T) {
	g := pair(1, 2)
	ctx := context.Background()

	assert.ErrorIs(t, g.SetValue(ctx, pair(3, 4)), domain.ErrStructuredData)
	assert.ErrorIs(t, g.SetValue(ctx, 42), domain.ErrInvalidValue)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.Value())
}

func TestGroup_LeafWriteNotifiesEveryAncestorOnce(t *testing.T) {
	var rootSpy, midSpy spy
	leaf := field("x")
	mid := form.MustGroup([]form.Entry{form.Named("leaf", leaf)}, form.WithActions(midSpy.action(domain.ValueChanged)))
	root := form.MustGroup([]form.Entry{form.Named("mid", mid)}, form.WithActions(rootSpy.action(domain.ValueChanged)))

	require.NoError(t, leaf.SetValue(context.Background(), "y"))
	assert.Equal(t, 1, midSpy.count())
	assert.Equal(t, 1, rootSpy.count())
	assert.Equal(t, map[string]any{"mid": map[string]any{"leaf": "y"}}, root.Value())
	assert.Equal(t, "mid.leaf", leaf.Path())
}

func TestGroup_NotificationStopsAtUnchangedAncestor(t *testing.T) {
	var rootSpy, midSpy spy
	hidden := field("x", form.WithEnabled(true))
	mid := form.MustGroup([]form.Entry{form.Named("h", hidden)}, form.WithActions(midSpy.action(domain.ValueChanged)))
	root := form.MustGroup([]form.Entry{form.Named("mid", mid)}, form.WithActions(rootSpy.action(domain.ValueChanged)))

	// same value written twice: the leaf dispatches, no group does
	require.NoError(t, hidden.SetValue(context.Background(), "x"))
	assert.Equal(t, 0, midSpy.count())
	assert.Equal(t, 0, rootSpy.count())
	assert.NotNil(t, root)
}

func TestGroup_NestedBulkSetNotifiesOncePerGroup(t *testing.T) {
	var rootSpy, innerSpy spy
	inner := form.MustGroup([]form.Entry{
		form.Named("x", field(1)),
		form.Named("y", field(2)),
	}, form.WithActions(innerSpy.action(domain.ValueChanged)))
	root := form.MustGroup([]form.Entry{
		form.Named("inner", inner),
		form.Named("z", field(3)),
	}, form.WithActions(rootSpy.action(domain.ValueChanged)))

	require.NoError(t, root.SetValue(context.Background(), map[string]any{
		"inner": map[string]any{"x": 10, "y": 20},
		"z":     30,
	}))
	assert.Equal(t, 1, innerSpy.count())
	assert.Equal(t, 1, rootSpy.count())
	assert.Equal(t, map[string]any{"inner": map[string]any{"x": 10, "y": 20}, "z": 30}, root.Value())
}

func TestGroup_DisablingChildNotifies(t *testing.T) {
	var s spy
	g := pair(1, 2, form.WithActions(s.action(domain.ValueChanged)))

	require.NoError(t, g.Field("b").SetEnabled(context.Background(), false))
	assert.Equal(t, 1, s.count())
	assert.Equal(t, map[string]any{"a": 1}, g.Value())
}

func TestGroup_ConstructionValueOverride(t *testing.T) {
	var s spy
	g := form.MustGroup([]form.Entry{
		form.Named("a", field(1)),
		form.Named("b", field(2)),
	}, form.WithValue(map[string]any{"a": 9}), form.WithActions(s.action(domain.ValueChanged)))

	assert.Equal(t, map[string]any{"a": 9, "b": 2}, g.Value())
	assert.Equal(t, map[string]any{"a": 9, "b": 2}, g.OriginalValue())
	assert.False(t, g.IsChanged())
	assert.Equal(t, 1, s.count())
}

func TestGroup_ConstructionOriginalOverride(t *testing.T) {
	g := form.MustGroup([]form.Entry{
		form.Named("a", field(1)),
		form.Named("b", field(2)),
	}, form.WithOriginalValue(map[string]any{"a": 0, "b": 0}))

	assert.Equal(t, map[string]any{"a": 0, "b": 0}, g.Value())
	assert.False(t, g.IsChanged())
}

func TestGroup_InvalidFields(t *testing.T) {
	_, err := form.NewGroup([]form.Entry{{Name: "", Node: field(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidFields)

	_, err = form.NewGroup([]form.Entry{form.Named("a.b", field(1))})
	assert.ErrorIs(t, err, domain.ErrInvalidFields)

	_, err = form.NewGroup([]form.Entry{form.Named("a", field(1)), form.Named("a", field(2))})
	assert.ErrorIs(t, err, domain.ErrInvalidFields)

	_, err = form.NewGroup([]form.Entry{form.Named("a", nil)})
	assert.ErrorIs(t, err, domain.ErrInvalidFields)

	var typedNil *form.Field
	_, err = form.NewGroup([]form.Entry{form.Named("a", typedNil)})
	assert.ErrorIs(t, err, domain.ErrInvalidFields)

	_, err = form.NewGroup([]form.Entry{form.Named("a", &form.Field{})})
	assert.ErrorIs(t, err, domain.ErrInvalidFields)
}

func TestGroup_NodeBelongsToOneGroup(t *testing.T) {
	shared := field(1)
	first := form.MustGroup([]form.Entry{form.Named("a", shared)})

	_, err := form.NewGroup([]form.Entry{form.Named("b", shared)})
	assert.ErrorIs(t, err, domain.ErrAlreadyAttached)
	assert.Same(t, first, shared.Parent())
	assert.Equal(t, "a", shared.FieldName())
}

func TestGroup_FailedConstructionReleasesChildren(t *testing.T) {
	a := field(1)

	_, err := form.NewGroup([]form.Entry{form.Named("a", a)}, form.WithValue("not a map"))
	require.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Nil(t, a.Parent())

	boom := errors.New("boom")
	_, err = form.NewGroup([]form.Entry{form.Named("a", a)}, form.WithActions(
		form.Eager(domain.ValueChanged, func(ctx context.Context, n form.Node, next actions.Next, args ...any) error {
			return boom
		}),
	))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, a.Parent())
	assert.Empty(t, a.FieldName())

	g, err := form.NewGroup([]form.Entry{form.Named("b", a)})
	require.NoError(t, err)
	assert.Same(t, g, a.Parent())
	assert.Equal(t, "b", a.Path())
}

func TestGroup_FindAndFields(t *testing.T) {
	inner := form.MustGroup([]form.Entry{form.Named("x", field(1))})
	root := form.MustGroup([]form.Entry{
		form.Named("z", field(0)),
		form.Named("inner", inner),
	})

	n, err := root.Find("inner.x")
	require.NoError(t, err)
	assert.Equal(t, 1, n.Value())

	n, err = root.Find("")
	require.NoError(t, err)
	assert.Same(t, root, n)

	_, err = root.Find("inner.missing")
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)
	_, err = root.Find("z.deeper")
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)

	var names []string
	for _, e := range root.Fields() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"z", "inner"}, names)
	assert.Nil(t, root.Field("nope"))
}

func TestGroup_ValidateChildrenThenSelf(t *testing.T) {
	var order []string
	track := func(label string) actions.Action[form.Node] {
		return form.Listen(domain.Validate, func(ctx context.Context, n form.Node, args ...any) error {
			order = append(order, label)
			return nil
		})
	}
	g := form.MustGroup([]form.Entry{
		form.Named("a", field(1, form.WithValidators(track("a")))),
		form.Named("b", field("", form.WithValidators(track("b"), form.Rule(rules.Required())))),
	}, form.WithValidators(track("group")))

	require.NoError(t, g.Validate(context.Background()))
	assert.Equal(t, []string{"a", "b", "group"}, order)
	assert.False(t, form.Valid(g))
	assert.Equal(t, map[string][]string{"b": {"required"}}, form.ErrorsByPath(g))
}

func TestGroup_Clone(t *testing.T) {
	g := pair(1, 2, form.WithOriginalValue(map[string]any{"a": 0, "b": 0}))
	require.NoError(t, g.SetValue(context.Background(), map[string]any{"a": 5, "b": 6}))
	g.Field("a").AddError("bad")

	n, err := g.Clone()
	require.NoError(t, err)
	c := n.(*form.Group)

	assert.Equal(t, g.Value(), c.Value())
	assert.Equal(t, g.OriginalValue(), c.OriginalValue())
	assert.Equal(t, []string{"bad"}, c.Field("a").Errors())
	assert.Nil(t, c.Parent())
	assert.Same(t, c, c.Field("a").Parent())

	require.NoError(t, c.SetValue(context.Background(), map[string]any{"a": 100}))
	assert.Equal(t, 5, g.Field("a").Value())
}

func TestGroup_CloneCarriesOriginalToEagerHandlers(t *testing.T) {
	g := pair(1, 2, form.WithOriginalValue(map[string]any{"a": 0, "b": 0}))
	require.NoError(t, g.SetValue(context.Background(), map[string]any{"a": 5, "b": 6}))

	var got []any
	n, err := g.Clone(form.WithActions(form.Eager(domain.ValueChanged, func(ctx context.Context, n form.Node, next actions.Next, args ...any) error {
		got = args
		return next(ctx, args...)
	})))
	require.NoError(t, err)

	assert.Equal(t, []any{
		map[string]any{"a": 5, "b": 6},
		map[string]any{"a": 0, "b": 0},
	}, got)
	assert.True(t, n.IsChanged())
}

func TestGroup_CloneOriginalOverrideKeepsValues(t *testing.T) {
	g := pair(1, 2)
	n, err := g.Clone(form.WithOriginalValue(map[string]any{"a": 9, "b": 9}))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, n.Value())
	assert.Equal(t, map[string]any{"a": 9, "b": 9}, n.OriginalValue())
}

func TestGroup_SetIsFireAndForget(t *testing.T) {
	g := pair(1, 2)
	g.Set(map[string]any{"b": 3})
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, g.Value())

	g.Set("not a map")
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, g.Value())
}
