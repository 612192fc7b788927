package domain

import "fmt"

// Visibility describes how a node should be presented.
type Visibility string

const (
	Visible Visibility = "visible"
	Hidden  Visibility = "hidden"
	// Collapsed keeps the node in the layout but folded away.
	Collapsed Visibility = "collapsed"
)

// ParseVisibility converts a textual visibility. Empty input means Visible.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case "", Visible:
		return Visible, nil
	case Hidden, Collapsed:
		return Visibility(s), nil
	default:
		return "", fmt.Errorf("unknown visibility: %q", s)
	}
}
