package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/formstate/pkg/form"
)

// FormMarkdown lays the tree out as a markdown table, one row per node in
// pre-order. Values of groups are omitted since their children are listed.
func FormMarkdown(title string, g *form.Group) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	status := "valid"
	if !form.Valid(g) {
		status = "invalid"
	}
	changed := "unchanged"
	if g.IsChanged() {
		changed = "changed"
	}
	fmt.Fprintf(&b, "_%s, %s_\n\n", status, changed)

	b.WriteString("| Path | Kind | Value | State | Errors |\n")
	b.WriteString("|------|------|-------|-------|--------|\n")
	_ = form.Walk(g, func(n form.Node) error {
		if n == form.Node(g) {
			return nil
		}
		kind := form.KindOf(n)
		value := ""
		if _, ok := n.(*form.Group); !ok {
			value = cell(n.FullValue())
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			n.Path(), kind, value, nodeState(n), escape(strings.Join(n.Errors(), "; ")))
		return nil
	})
	return b.String()
}

func nodeState(n form.Node) string {
	parts := []string{string(n.Visibility())}
	if !n.Enabled() {
		parts = append(parts, "disabled")
	}
	if n.IsChanged() {
		parts = append(parts, "changed")
	}
	return strings.Join(parts, ", ")
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return escape(t)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return escape(fmt.Sprint(v))
	}
	return escape(string(data))
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
