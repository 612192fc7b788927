package definition

import "github.com/aretw0/formstate/pkg/domain"

// Definition is the declarative layout of a form.
type Definition struct {
	ID     string      `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Title  string      `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Fields []FieldSpec `json:"fields" yaml:"fields" mapstructure:"fields"`
}

// FieldSpec describes one node. Kind defaults to "group" when Fields are
// given and to "field" otherwise.
type FieldSpec struct {
	Name          string      `json:"name" yaml:"name" mapstructure:"name"`
	Kind          string      `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Value         any         `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	OriginalValue any         `json:"original_value,omitempty" yaml:"original_value,omitempty" mapstructure:"original_value"`
	Enabled       *bool       `json:"enabled,omitempty" yaml:"enabled,omitempty" mapstructure:"enabled"`
	Visibility    string      `json:"visibility,omitempty" yaml:"visibility,omitempty" mapstructure:"visibility"`
	Rules         []string    `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`
	Label         string      `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Icon          string      `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
	Handler       string      `json:"handler,omitempty" yaml:"handler,omitempty" mapstructure:"handler"`
	Fields        []FieldSpec `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`
}

// EffectiveKind resolves the default kind.
func (s FieldSpec) EffectiveKind() string {
	if s.Kind != "" {
		return s.Kind
	}
	if len(s.Fields) > 0 {
		return domain.KindGroup
	}
	return domain.KindField
}
