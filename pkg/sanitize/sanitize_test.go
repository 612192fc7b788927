package sanitize_test

import (
	"strings"
	"testing"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_SizeLimit(t *testing.T) {
	limit := sanitize.DefaultMaxInputSize

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"under limit", limit - 1, false},
		{"exact limit", limit, false},
		{"over limit", limit + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sanitize.String(strings.Repeat("a", tt.size))
			if tt.wantErr {
				assert.ErrorIs(t, err, sanitize.ErrInputTooLarge)
				assert.ErrorIs(t, err, domain.ErrInvalidValue)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestString_EnvOverride(t *testing.T) {
	t.Setenv(sanitize.EnvMaxInputSize, "4")
	_, err := sanitize.String("abcde")
	assert.ErrorIs(t, err, sanitize.ErrInputTooLarge)

	t.Setenv(sanitize.EnvMaxInputSize, "nope")
	assert.Equal(t, sanitize.DefaultMaxInputSize, sanitize.MaxInputSize())
}

func TestString_ControlChars(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"plain", "Hello World", "Hello World"},
		{"safe controls", "Line1\nLine2\tTabbed\r", "Line1\nLine2\tTabbed\r"},
		{"ansi", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"null", "Null\x00Byte", "NullByte"},
		{"bell", "Ding\x07", "Ding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitize.String(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString_InvalidUTF8(t *testing.T) {
	_, err := sanitize.String("bad\xff")
	assert.ErrorIs(t, err, sanitize.ErrInvalidUTF8)
}

func TestValue_Nested(t *testing.T) {
	in := map[string]any{
		"name\x00": "Ana\x07",
		"tags":     []any{"a\x1b", 2.0, true},
		"address":  map[string]any{"city": "Recife\x00"},
		"age":      30.0,
		"missing":  nil,
	}
	got, err := sanitize.Value(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":    "Ana",
		"tags":    []any{"a", 2.0, true},
		"address": map[string]any{"city": "Recife"},
		"age":     30.0,
		"missing": nil,
	}, got)
	assert.Equal(t, "Ana\x07", in["name\x00"], "input is not modified")
}

func TestValue_ReportsPath(t *testing.T) {
	_, err := sanitize.Value(map[string]any{"a": []any{"ok", "bad\xff"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Contains(t, err.Error(), "a: [1]")
}

func TestValue_Scalars(t *testing.T) {
	got, err := sanitize.Value(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = sanitize.Value(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
