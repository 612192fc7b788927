package form

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/formstate/pkg/domain"
)

// Capture produces the persisted image of g: the full value, the errors and
// the enabled and visibility state of every node.
func Capture(id string, g *Group) *domain.Snapshot {
	full, _ := snapshot(g.FullValue()).(map[string]any)
	return &domain.Snapshot{
		FormID:    id,
		Value:     full,
		Errors:    ErrorsByPath(g),
		Flags:     FlagsByPath(g),
		Changed:   g.IsChanged(),
		UpdatedAt: time.Now().UTC(),
	}
}

// FlagsByPath records the enabled and visibility state of every node of the
// subtree, keyed by path relative to n.
func FlagsByPath(n Node) map[string]domain.NodeFlags {
	out := make(map[string]domain.NodeFlags)
	prefix := n.Path()
	_ = Walk(n, func(c Node) error {
		out[relPath(prefix, c.Path())] = domain.NodeFlags{Enabled: c.Enabled(), Visibility: c.Visibility()}
		return nil
	})
	return out
}

// Restore applies a snapshot to g. Nodes recorded as enabled are enabled first
// so that they accept their values, the full value goes through SetValue (so
// disabled fields keep their own values), then nodes recorded as disabled are
// disabled and the recorded errors are put back.
func Restore(ctx context.Context, g *Group, snap *domain.Snapshot) error {
	if snap == nil {
		return nil
	}
	var disable []Node
	for path, f := range snap.Flags {
		n, ok := restoreTarget(g, snap, path)
		if !ok {
			continue
		}
		if err := n.SetVisibility(ctx, f.Visibility); err != nil {
			return fmt.Errorf("restore %s: %w", snap.FormID, err)
		}
		if !f.Enabled {
			disable = append(disable, n)
			continue
		}
		if err := n.SetEnabled(ctx, true); err != nil {
			return fmt.Errorf("restore %s: %w", snap.FormID, err)
		}
	}

	if err := g.SetValue(ctx, snap.Value); err != nil {
		return fmt.Errorf("restore %s: %w", snap.FormID, err)
	}

	for _, n := range disable {
		if err := n.SetEnabled(ctx, false); err != nil {
			return fmt.Errorf("restore %s: %w", snap.FormID, err)
		}
	}
	for path, errs := range snap.Errors {
		if n, ok := restoreTarget(g, snap, path); ok {
			n.SetErrors(errs)
		}
	}
	return nil
}

func restoreTarget(g *Group, snap *domain.Snapshot, path string) (Node, bool) {
	n, err := g.Find(path)
	if err != nil {
		// the layout changed since the snapshot was taken
		g.logger.Warn("dropping state for unknown path", "form_id", snap.FormID, "path", path)
		return nil, false
	}
	return n, true
}
