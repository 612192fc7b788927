package domain

import "errors"

// ErrInvalidFields is returned when a group is built from an invalid field map.
var ErrInvalidFields = errors.New("invalid fields object provided")

// ErrStructuredData is returned when a node is passed where plain data was expected.
var ErrStructuredData = errors.New("data is already a form structure, should be a plain value")

// ErrAlreadyAttached is returned when a node is inserted into a second group.
var ErrAlreadyAttached = errors.New("node already belongs to a group")

// ErrInvalidValue is returned when a value cannot be applied to a node.
var ErrInvalidValue = errors.New("invalid value")

// ErrFieldNotFound is returned when a path does not resolve to a node.
var ErrFieldNotFound = errors.New("field not found")

// ErrNotAction is returned when an action operation targets a non-action node.
var ErrNotAction = errors.New("node is not an action")

// ErrFormNotFound is returned when a form snapshot cannot be found in the store.
var ErrFormNotFound = errors.New("form not found")

// ErrInvalidDefinition is returned when a declarative form definition is malformed.
var ErrInvalidDefinition = errors.New("invalid form definition")
