/*
Package formstate is a reactive form-state engine for building forms whose
fields validate themselves, notify their ancestors of changes and persist
between requests.

# Concept

A form is a tree of nodes. Leaves are fields (plain values) and actions
(commands with a label and an icon); interior nodes are groups whose value
is the aggregate of their children. Every node owns an action registry:
handlers are registered per event kind and run newest first, each one
deciding whether to call the next. Writing a leaf fires its value_changed
chain, validates it and walks up the tree so that each ancestor whose
aggregate actually changed notifies exactly once. Bulk writes on a group
suppress the per-child notifications and notify the group once at the end.

The Engine binds one declarative definition (YAML, JSON or the dsl
builder) to a snapshot store and serves every form instance built from
it, serializing access per form ID.

# Usage

	b := dsl.New("signup")
	b.Add("email").Rules("required")
	def, err := b.Definition()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := formstate.New(def, formstate.WithStore(file.New("")))
	if err != nil {
		log.Fatal(err)
	}

	snap, err := eng.SetValue(ctx, "user-42", map[string]any{"email": "ana@example.com"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(snap.Value, snap.Errors)

Lower-level building blocks live in the sub packages: pkg/form (the node
tree), pkg/actions (the dispatch chain), pkg/session (locking and
persistence), pkg/adapters (stores and transports).
*/
package formstate
