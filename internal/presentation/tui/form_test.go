package tui

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormMarkdown(t *testing.T) {
	g := form.MustGroup([]form.Entry{
		form.Named("name", form.MustField(form.WithValue("a|b"), form.WithValidators(form.Rule(rules.Required())))),
		form.Named("address", form.MustGroup([]form.Entry{
			form.Named("zip", form.MustField(form.WithValue("50000"), form.WithEnabled(false))),
		})),
		form.Named("send", form.MustAction(form.WithValue(domain.ActionValue{Label: "Send"}))),
	})
	require.NoError(t, g.Field("name").SetValue(context.Background(), ""))

	md := FormMarkdown("Signup", g)

	assert.Contains(t, md, "# Signup")
	assert.Contains(t, md, "_invalid, changed_")
	assert.Contains(t, md, "| name | field |  | visible, changed | required |")
	assert.Contains(t, md, "| address | group |  | visible |  |")
	assert.Contains(t, md, "| address.zip | field | 50000 | visible, disabled |  |")
	assert.Contains(t, md, `| send | action | {"label":"Send"} | visible |  |`)
}

func TestCellEscapesPipes(t *testing.T) {
	assert.Equal(t, `a\|b`, cell("a|b"))
	assert.Equal(t, "3", cell(3))
	assert.Equal(t, "", cell(nil))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
