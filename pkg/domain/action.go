package domain

// ActionValue is the command descriptor carried by an action node.
// An empty string means the attribute is unset.
type ActionValue struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
}

// IsEmpty reports whether neither label nor icon is set.
func (v ActionValue) IsEmpty() bool {
	return v.Label == "" && v.Icon == ""
}

// Or returns v unless it is empty, in which case fallback is returned.
func (v ActionValue) Or(fallback ActionValue) ActionValue {
	if v.IsEmpty() {
		return fallback
	}
	return v
}
