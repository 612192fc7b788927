// Package sanitize cleans values that arrive from outside the process before
// they reach a form tree.
package sanitize

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/formstate/pkg/domain"
)

var (
	// DefaultMaxInputSize is the per-string limit in bytes.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "FORMSTATE_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = fmt.Errorf("%w: input exceeds maximum allowed size", domain.ErrInvalidValue)
	ErrInvalidUTF8   = fmt.Errorf("%w: input contains invalid UTF-8 sequences", domain.ErrInvalidValue)
)

// String enforces the size limit, rejects invalid UTF-8 and strips control
// characters other than newline, tab and carriage return.
func String(input string) (string, error) {
	limit := MaxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Value applies String to every string inside v, descending into maps and
// slices as produced by encoding/json. Keys are cleaned too. Other values are
// returned as they are.
func Value(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return String(t)
	case map[string]any:
		if t == nil {
			return t, nil
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			ck, err := String(k)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			ce, err := Value(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ck, err)
			}
			out[ck] = ce
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ce, err := Value(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ce
		}
		return out, nil
	default:
		return v, nil
	}
}

// MaxInputSize returns the effective per-string limit.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
