// Package rules provides value rules used to build field validators.
//
// It defines a small set of built-in rules (required, string, int, float, bool,
// slices, length bounds, enumerations and patterns) plus custom rules. Rules can be
// created programmatically or parsed from compact strings, which is how form
// definitions declare them:
//
//	r, err := rules.ParseAll([]string{"required", "string", "min_length:3"})
//
// A rule only judges a value. Recording the failure on a node is the job of the
// validator action that wraps it (see form.Rule).
//
// Apart from Required, rules accept nil: absence is not a type error.
package rules
