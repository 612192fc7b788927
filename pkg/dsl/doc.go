/*
Package dsl provides a fluent Go API for declaring forms.

It produces the same definition.Definition a YAML file would, so layouts can
be generated, unit tested and type-checked without external files.

Example usage:

	b := dsl.New("signup")

	b.Add("email").
		Value("").
		Rules("required", "pattern:^[^@]+@[^@]+$")

	b.Add("address").Group(func(g *dsl.Builder) {
		g.Add("city").Value("Recife")
		g.Add("zip").Disabled()
	})

	b.Add("submit").Action("Send", "plane")

	tree, err := b.Build()
*/
package dsl
