package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree() *form.Group {
	return form.MustGroup([]form.Entry{
		form.Named("name", field("Ana")),
		form.Named("address", form.MustGroup([]form.Entry{
			form.Named("city", field("Recife")),
			form.Named("zip", field("50000", form.WithEnabled(false))),
		})),
		form.Named("submit", form.MustAction(form.WithValue(domain.ActionValue{Label: "Send"}))),
	})
}

func TestWalk_PreOrder(t *testing.T) {
	var paths []string
	require.NoError(t, form.Walk(tree(), func(n form.Node) error {
		paths = append(paths, n.Path())
		return nil
	}))
	assert.Equal(t, []string{"", "name", "address", "address.city", "address.zip", "submit"}, paths)
}

func TestWalk_SkipChildrenAndStop(t *testing.T) {
	var paths []string
	require.NoError(t, form.Walk(tree(), func(n form.Node) error {
		paths = append(paths, n.Path())
		if form.KindOf(n) == domain.KindGroup && n.Path() != "" {
			return form.SkipChildren
		}
		return nil
	}))
	assert.Equal(t, []string{"", "name", "address", "submit"}, paths)

	stop := errors.New("stop")
	err := form.Walk(tree(), func(n form.Node) error {
		if n.Path() == "name" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
}

func TestErrorsByPath_RelativeToNode(t *testing.T) {
	root := tree()
	address := root.Field("address")
	city, err := root.Find("address.city")
	require.NoError(t, err)

	city.AddError("unknown city")
	address.AddError("incomplete")

	assert.Equal(t, map[string][]string{
		"address":      {"incomplete"},
		"address.city": {"unknown city"},
	}, form.ErrorsByPath(root))
	assert.Equal(t, map[string][]string{
		"":     {"incomplete"},
		"city": {"unknown city"},
	}, form.ErrorsByPath(address))
	assert.True(t, form.Valid(root.Field("name")))
}

func TestFromData(t *testing.T) {
	g, err := form.FromData(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)

	var names []string
	for _, e := range g.Fields() {
		names = append(names, e.Name)
		assert.Equal(t, domain.KindField, form.KindOf(e.Node))
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.Value())

	empty, err := form.FromData(nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	_, err = form.FromData(g)
	assert.ErrorIs(t, err, domain.ErrStructuredData)
}

func TestDecode(t *testing.T) {
	type address struct {
		City string `form:"city"`
		Zip  string `form:"zip"`
	}
	type person struct {
		Name    string  `form:"name"`
		Address address `form:"address"`
	}
	root := tree()

	var visible person
	require.NoError(t, form.Decode(root, &visible))
	assert.Equal(t, person{Name: "Ana", Address: address{City: "Recife"}}, visible)

	var full person
	require.NoError(t, form.DecodeFull(root, &full))
	assert.Equal(t, "50000", full.Address.Zip)
}

func TestCaptureRestore(t *testing.T) {
	ctx := context.Background()
	src := tree()
	require.NoError(t, src.SetValue(ctx, map[string]any{"name": "Bia"}))
	src.Field("name").AddError("too short")

	snap := form.Capture("f1", src)
	assert.Equal(t, "f1", snap.FormID)
	assert.True(t, snap.Changed)
	assert.Equal(t, "Bia", snap.Value["name"])
	assert.Equal(t, map[string]any{"city": "Recife", "zip": "50000"}, snap.Value["address"])
	assert.Equal(t, map[string][]string{"name": {"too short"}}, snap.Errors)

	dst := tree()
	require.NoError(t, form.Restore(ctx, dst, snap))
	assert.Equal(t, src.Value(), dst.Value())
	assert.Equal(t, []string{"too short"}, dst.Field("name").Errors())

	require.NoError(t, form.Restore(ctx, dst, nil))
}

func TestCaptureRestore_Flags(t *testing.T) {
	ctx := context.Background()
	src := tree()
	zip := src.Field("address").(*form.Group).Field("zip")
	require.NoError(t, zip.SetEnabled(ctx, true))
	require.NoError(t, zip.SetValue(ctx, "51000"))
	require.NoError(t, src.SetValue(ctx, map[string]any{"name": "Bia"}))
	require.NoError(t, src.Field("name").SetEnabled(ctx, false))
	require.NoError(t, src.Field("submit").SetVisibility(ctx, domain.Collapsed))

	snap := form.Capture("f", src)
	assert.Equal(t, domain.NodeFlags{Enabled: false, Visibility: domain.Visible}, snap.Flags["name"])
	assert.Equal(t, domain.NodeFlags{Enabled: true, Visibility: domain.Visible}, snap.Flags["address.zip"])
	assert.Equal(t, domain.NodeFlags{Enabled: true, Visibility: domain.Collapsed}, snap.Flags["submit"])
	assert.Contains(t, snap.Flags, "")

	dst := tree()
	require.NoError(t, form.Restore(ctx, dst, snap))

	name := dst.Field("name")
	assert.False(t, name.Enabled())
	assert.Equal(t, "Bia", name.FullValue())
	dstZip := dst.Field("address").(*form.Group).Field("zip")
	assert.True(t, dstZip.Enabled())
	assert.Equal(t, "51000", dstZip.Value())
	assert.Equal(t, domain.Collapsed, dst.Field("submit").Visibility())
	assert.Equal(t, src.Value(), dst.Value())
	assert.Equal(t, src.FullValue(), dst.FullValue())
}

func TestRestore_SkipsUnknownFlagPaths(t *testing.T) {
	snap := form.Capture("f", tree())
	snap.Flags["gone"] = domain.NodeFlags{Enabled: false, Visibility: domain.Hidden}

	dst := tree()
	require.NoError(t, form.Restore(context.Background(), dst, snap))
	assert.Equal(t, tree().Value(), dst.Value())
}

func TestCaptureIsDetached(t *testing.T) {
	src := form.MustGroup([]form.Entry{form.Named("tags", field([]any{"a"}))})
	snap := form.Capture("f", src)

	snap.Value["tags"].([]any)[0] = "mutated"
	assert.Equal(t, []any{"a"}, src.Field("tags").Value())
}
