/*
Package domain contains the core vocabulary shared by the form engine and its adapters.

It defines the event kinds dispatched through a node's action chain, the visibility
states a node can be in, the command descriptor carried by action nodes, and the
snapshot shape persisted by stores. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - ActionKind: A named event category (ValueChanged, ExecuteAction, ...).
  - Visibility: How a node should be presented by a UI binding.
  - ActionValue: The {label, icon} command descriptor held by action nodes.
  - Snapshot: A persisted image of a form tree (full value, errors, changed flag).
*/
package domain
