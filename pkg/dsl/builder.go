package dsl

import (
	"github.com/aretw0/formstate/pkg/definition"
	"github.com/aretw0/formstate/pkg/form"
)

// Builder collects the nodes of one group level, in declaration order.
type Builder struct {
	id    string
	title string
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a builder for a form.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Title sets the human-readable title of the form.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Add declares a node, a plain field until told otherwise.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{spec: definition.FieldSpec{Name: name}}
	b.nodes[name] = nb
	b.order = append(b.order, name)
	return nb
}

func (b *Builder) specs() []definition.FieldSpec {
	out := make([]definition.FieldSpec, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.nodes[name].Spec())
	}
	return out
}

// Definition returns the declared form, checked.
func (b *Builder) Definition() (*definition.Definition, error) {
	def := &definition.Definition{ID: b.id, Title: b.title, Fields: b.specs()}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Build compiles the declared form into a fresh tree.
func (b *Builder) Build(opts ...definition.Option) (*form.Group, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, err
	}
	return definition.Build(def, opts...)
}
