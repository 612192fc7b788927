package domain

import "time"

// NodeFlags is the enabled and visibility state of one node.
type NodeFlags struct {
	Enabled    bool       `json:"enabled"`
	Visibility Visibility `json:"visibility"`
}

// Snapshot is the persisted image of a form tree.
// Value always holds the full value (disabled and hidden fields included).
// Flags and Errors are keyed by node path, the root under "".
type Snapshot struct {
	FormID    string               `json:"form_id"`
	Value     map[string]any       `json:"value"`
	Errors    map[string][]string  `json:"errors,omitempty"`
	Flags     map[string]NodeFlags `json:"flags,omitempty"`
	Changed   bool                 `json:"changed"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Clone returns a copy whose maps can be mutated independently at the top level.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	if s.Value != nil {
		c.Value = make(map[string]any, len(s.Value))
		for k, v := range s.Value {
			c.Value[k] = v
		}
	}
	if s.Errors != nil {
		c.Errors = make(map[string][]string, len(s.Errors))
		for k, v := range s.Errors {
			c.Errors[k] = append([]string(nil), v...)
		}
	}
	if s.Flags != nil {
		c.Flags = make(map[string]NodeFlags, len(s.Flags))
		for k, v := range s.Flags {
			c.Flags[k] = v
		}
	}
	return &c
}
