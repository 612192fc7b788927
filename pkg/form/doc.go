/*
Package form implements the composite value tree of the form engine.

A form is a tree of nodes. Leaves are Fields (arbitrary values) and Actions
(command descriptors that can be executed); composites are Groups, which hold an
ordered set of named children and expose their aggregate value.

Every node owns an actions.Registry. Writing a leaf fires ValueChanged through the
leaf's own chain, asks the parent Group to recompute its aggregate and then runs the
leaf's validators. A Group only fires its own ValueChanged when the recomputed
aggregate differs from the last one it announced, so notifications stop climbing at
the first ancestor that did not really change. Bulk writes on a Group suppress the
per-child upward notifications and announce the whole subtree once.

	name := form.MustField(form.WithValue("Ana"), form.WithValidators(form.Rule(rules.Required())))
	person := form.MustGroup([]form.Entry{
		form.Named("name", name),
		form.Named("age", form.MustField(form.WithValue(30))),
	})

	person.Register(form.Listen(domain.ValueChanged, func(ctx context.Context, n form.Node, args ...any) error {
		fmt.Println("person is now", args[0])
		return nil
	}))

	err := person.SetValue(ctx, map[string]any{"age": 31}) // one notification

# Values

Value is the visible contract: disabled children are left out (a disabled Group
still surfaces when some descendant is enabled) and an empty aggregate is nil.
FullValue is the unconditional snapshot of the whole subtree. Persistence layers
must pick one explicitly.

# Concurrency

A tree is not safe for concurrent mutation. Callers that share a tree across
goroutines must serialize access (see the session package).
*/
package form
