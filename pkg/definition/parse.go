package definition

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/rules"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON definition and checks it.
// Unknown keys are rejected so that typos do not go unnoticed.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidDefinition)
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks names, kinds, rules and kind-specific attributes.
func (d *Definition) Validate() error {
	return validateFields(d.Fields, "")
}

func validateFields(specs []FieldSpec, prefix string) error {
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		path := join(prefix, s.Name)
		switch {
		case s.Name == "":
			return invalid(prefix, "entry %d has no name", i)
		case strings.Contains(s.Name, "."):
			return invalid(path, "name contains a path separator")
		case seen[s.Name]:
			return invalid(path, "duplicate name")
		}
		seen[s.Name] = true

		if _, err := domain.ParseVisibility(s.Visibility); err != nil {
			return invalid(path, "%v", err)
		}
		if _, err := rules.ParseAll(s.Rules); err != nil {
			return invalid(path, "%v", err)
		}

		kind := s.EffectiveKind()
		switch kind {
		case domain.KindField, domain.KindAction, domain.KindGroup:
		default:
			return invalid(path, "unknown kind %q", s.Kind)
		}
		if kind != domain.KindGroup && len(s.Fields) > 0 {
			return invalid(path, "only groups have fields")
		}
		if kind != domain.KindAction && (s.Label != "" || s.Icon != "") {
			return invalid(path, "only actions have a label or icon")
		}
		if kind != domain.KindAction && s.Handler != "" {
			return invalid(path, "only actions have a handler")
		}
		if kind == domain.KindGroup {
			if err := validateFields(s.Fields, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func invalid(path, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if path != "" {
		msg = fmt.Sprintf("%s: %s", path, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidDefinition, msg)
}
