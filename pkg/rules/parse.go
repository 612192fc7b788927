package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a textual rule to a Rule.
// Supported forms: "required", "string", "int", "float", "bool", "[string]" (slices),
// "min_length:N", "max_length:N", "one_of:a|b|c" and "pattern:EXPR".
func Parse(s string) (Rule, error) {
	s = strings.TrimSpace(s)

	// Handle slice rules: [string], [int], etc.
	if len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' {
		elem, err := Parse(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	name, arg, hasArg := strings.Cut(s, ":")
	switch name {
	case "required", "string", "int", "float", "bool":
		if hasArg {
			return nil, fmt.Errorf("rule %s takes no argument", name)
		}
	}

	switch name {
	case "required":
		return Required(), nil
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "min_length", "max_length":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("rule %s: invalid length %q", name, arg)
		}
		if name == "max_length" {
			return MaxLength(n), nil
		}
		return MinLength(n), nil
	case "one_of":
		if arg == "" {
			return nil, fmt.Errorf("rule one_of: no options")
		}
		return OneOf(strings.Split(arg, "|")...), nil
	case "pattern":
		return Pattern(arg)
	default:
		return nil, fmt.Errorf("unsupported rule: %s", s)
	}
}

// ParseAll parses every entry, failing on the first invalid one.
func ParseAll(specs []string) ([]Rule, error) {
	result := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		result = append(result, r)
	}
	return result, nil
}
