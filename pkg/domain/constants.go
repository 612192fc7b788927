package domain

// ActionKind identifies an event category dispatched through a node's registry.
type ActionKind string

// Standard action kinds.
const (
	// ValueChanged fires after a node's value was replaced.
	// Args: newValue, oldValue.
	ValueChanged ActionKind = "value_changed"

	// VisibilityChanged fires after a node's visibility was replaced.
	// Args: newVisibility, oldVisibility.
	VisibilityChanged ActionKind = "visibility_changed"

	// EnabledChanged fires after a node was enabled or disabled.
	// Args: newEnabled, oldEnabled.
	EnabledChanged ActionKind = "enabled_changed"

	// ExecuteAction fires when an action node is executed.
	// Args: params.
	ExecuteAction ActionKind = "execute_action"

	// Validate runs the validator chain of a node.
	// Args: value.
	Validate ActionKind = "validate"
)

// Node kinds used by definitions and snapshots.
const (
	KindField  = "field"
	KindAction = "action"
	KindGroup  = "group"
)
