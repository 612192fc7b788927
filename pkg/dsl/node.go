package dsl

import (
	"github.com/aretw0/formstate/pkg/definition"
	"github.com/aretw0/formstate/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	spec  definition.FieldSpec
	group *Builder
}

// Value sets the initial value.
func (n *NodeBuilder) Value(v any) *NodeBuilder {
	n.spec.Value = v
	return n
}

// Original sets the value the node compares against to report changes.
func (n *NodeBuilder) Original(v any) *NodeBuilder {
	n.spec.OriginalValue = v
	return n
}

// Disabled starts the node disabled.
func (n *NodeBuilder) Disabled() *NodeBuilder {
	enabled := false
	n.spec.Enabled = &enabled
	return n
}

// Visibility sets how the node should be presented.
func (n *NodeBuilder) Visibility(v domain.Visibility) *NodeBuilder {
	n.spec.Visibility = string(v)
	return n
}

// Rules appends validation rules in their textual form ("required", "min_length:3").
func (n *NodeBuilder) Rules(specs ...string) *NodeBuilder {
	n.spec.Rules = append(n.spec.Rules, specs...)
	return n
}

// Action turns the node into an action with the given descriptor.
func (n *NodeBuilder) Action(label, icon string) *NodeBuilder {
	n.spec.Kind = domain.KindAction
	n.spec.Label = label
	n.spec.Icon = icon
	return n
}

// Handler binds the action to a registered handler by name.
func (n *NodeBuilder) Handler(name string) *NodeBuilder {
	n.spec.Handler = name
	return n
}

// Group turns the node into a group whose children are declared by fn.
// Calling it again adds to the same children.
func (n *NodeBuilder) Group(fn func(g *Builder)) *NodeBuilder {
	n.spec.Kind = domain.KindGroup
	if n.group == nil {
		n.group = New("")
	}
	fn(n.group)
	return n
}

// Spec returns the definition of the node, children included.
func (n *NodeBuilder) Spec() definition.FieldSpec {
	spec := n.spec
	if n.group != nil {
		spec.Fields = n.group.specs()
	}
	return spec
}
