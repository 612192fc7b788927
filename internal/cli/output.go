package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/formstate/internal/presentation/tui"
	"github.com/aretw0/formstate/pkg/form"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputAuto     = "auto"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
	OutputMarkdown = "markdown"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// WriteValue encodes v to w as JSON or YAML.
func WriteValue(w io.Writer, v any, format string) error {
	switch format {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case OutputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteForm prints the tree. Auto picks a rendered table on terminals and
// JSON otherwise. full selects FullValue for the encoded formats.
func WriteForm(out *os.File, title string, g *form.Group, format string, full bool) error {
	if format == OutputAuto {
		format = OutputJSON
		if IsTerminal(out) {
			format = OutputMarkdown
		}
	}

	if format == OutputMarkdown {
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		s, err := render(tui.FormMarkdown(title, g))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, s)
		return err
	}

	v := g.Value()
	if full {
		v = g.FullValue()
	}
	return WriteValue(out, v, format)
}

// ReadData reads a YAML or JSON document holding a form value.
func ReadData(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var v map[string]any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse data %s: %w", path, err)
	}
	return v, nil
}
