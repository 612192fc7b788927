package ports

import (
	"context"

	"github.com/aretw0/formstate/pkg/domain"
)

// SnapshotStore persists form snapshots.
type SnapshotStore interface {
	// Save persists the snapshot for a given form ID, replacing any previous one.
	Save(ctx context.Context, formID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given form ID.
	// Returns domain.ErrFormNotFound if the form does not exist.
	Load(ctx context.Context, formID string) (*domain.Snapshot, error)

	// Delete removes the snapshot. Deleting a missing form is not an error.
	Delete(ctx context.Context, formID string) error

	// List returns the IDs of the stored forms.
	List(ctx context.Context) ([]string, error)
}
