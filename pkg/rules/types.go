package rules

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Rule judges a single value.
type Rule interface {
	// Name returns the rule in its parseable form (e.g., "string", "min_length:3").
	Name() string
	// Validate returns an error describing why value is not acceptable.
	Validate(value any) error
}

// --- Built-in Rule Implementations ---

// RequiredRule rejects nil and blank strings.
type RequiredRule struct{}

func (r *RequiredRule) Name() string { return "required" }

func (r *RequiredRule) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("required")
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// StringRule validates string values.
type StringRule struct{}

func (r *StringRule) Name() string { return "string" }

func (r *StringRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntRule validates integer values.
type IntRule struct{}

func (r *IntRule) Name() string { return "int" }

func (r *IntRule) Validate(value any) error {
	switch v := value.(type) {
	case nil, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// FloatRule validates numeric values.
type FloatRule struct{}

func (r *FloatRule) Name() string { return "float" }

func (r *FloatRule) Validate(value any) error {
	switch value.(type) {
	case nil, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BoolRule validates boolean values.
type BoolRule struct{}

func (r *BoolRule) Name() string { return "bool" }

func (r *BoolRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceRule validates slices whose elements satisfy elem.
type SliceRule struct {
	elem Rule
}

func (r *SliceRule) Name() string {
	return fmt.Sprintf("[%s]", r.elem.Name())
}

func (r *SliceRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		if err := r.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// LengthRule bounds the rune length of strings and the length of slices and maps.
type LengthRule struct {
	n   int
	max bool
}

func (r *LengthRule) Name() string {
	if r.max {
		return fmt.Sprintf("max_length:%d", r.n)
	}
	return fmt.Sprintf("min_length:%d", r.n)
}

func (r *LengthRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	var length int
	switch v := value.(type) {
	case string:
		length = utf8.RuneCountInString(v)
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			length = rv.Len()
		default:
			return fmt.Errorf("expected string or collection, got %T", value)
		}
	}
	if r.max && length > r.n {
		return fmt.Errorf("must be at most %d long", r.n)
	}
	if !r.max && length < r.n {
		return fmt.Errorf("must be at least %d long", r.n)
	}
	return nil
}

// OneOfRule restricts a value to a fixed set of strings.
type OneOfRule struct {
	options []string
}

func (r *OneOfRule) Name() string {
	return "one_of:" + strings.Join(r.options, "|")
}

func (r *OneOfRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !slices.Contains(r.options, s) {
		return fmt.Errorf("must be one of %s", strings.Join(r.options, ", "))
	}
	return nil
}

// PatternRule matches strings against a regular expression.
type PatternRule struct {
	re *regexp.Regexp
}

func (r *PatternRule) Name() string { return "pattern:" + r.re.String() }

func (r *PatternRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !r.re.MatchString(s) {
		return fmt.Errorf("does not match %s", r.re.String())
	}
	return nil
}

// CustomRule applies a user-defined validation function.
type CustomRule struct {
	name     string
	validate func(any) error
}

func (r *CustomRule) Name() string { return r.name }

func (r *CustomRule) Validate(value any) error {
	return r.validate(value)
}

// --- Factory Functions ---

// Required creates a presence rule.
func Required() Rule { return &RequiredRule{} }

// String creates a string rule.
func String() Rule { return &StringRule{} }

// Int creates an integer rule.
func Int() Rule { return &IntRule{} }

// Float creates a numeric rule.
func Float() Rule { return &FloatRule{} }

// Bool creates a boolean rule.
func Bool() Rule { return &BoolRule{} }

// Slice creates a rule for slices whose elements satisfy elem.
func Slice(elem Rule) Rule { return &SliceRule{elem: elem} }

// MinLength creates a lower length bound.
func MinLength(n int) Rule { return &LengthRule{n: n} }

// MaxLength creates an upper length bound.
func MaxLength(n int) Rule { return &LengthRule{n: n, max: true} }

// OneOf creates an enumeration rule.
func OneOf(options ...string) Rule { return &OneOfRule{options: options} }

// Pattern creates a regular-expression rule.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return &PatternRule{re: re}, nil
}

// Custom creates a rule with a user-defined function.
func Custom(name string, validate func(any) error) Rule {
	return &CustomRule{name: name, validate: validate}
}
