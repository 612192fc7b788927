package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation
// adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	formID := "contract-test-form-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) *domain.Snapshot {
		return &domain.Snapshot{
			FormID: id,
			Value: map[string]any{
				"name":    "Ana",
				"age":     42,
				"address": map[string]any{"city": "Recife"},
			},
			Errors:    map[string][]string{"name": {"too short"}},
			Changed:   true,
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(formID)
		require.NoError(t, store.Save(ctx, formID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, formID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, formID, loaded.FormID)
		assert.Equal(t, "Ana", loaded.Value["name"])
		// JSON-backed stores turn numbers into float64; only presence is required.
		assert.NotNil(t, loaded.Value["age"])
		assert.Equal(t, map[string]any{"city": "Recife"}, loaded.Value["address"])
		assert.Equal(t, []string{"too short"}, loaded.Errors["name"])
		assert.True(t, loaded.Changed)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Loaded snapshot is detached", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, formID, newSnapshot(formID)))

		loaded, err := store.Load(ctx, formID)
		require.NoError(t, err)
		loaded.Value["name"] = "mutated"

		again, err := store.Load(ctx, formID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", again.Value["name"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+formID)
		assert.ErrorIs(t, err, domain.ErrFormNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, formID, newSnapshot(formID)))
		require.NoError(t, store.Delete(ctx, formID), "Delete should not return error")

		_, err := store.Load(ctx, formID)
		assert.ErrorIs(t, err, domain.ErrFormNotFound, "Load after Delete should return ErrFormNotFound")

		assert.NoError(t, store.Delete(ctx, formID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := formID + "-1"
		id2 := formID + "-2"
		require.NoError(t, store.Save(ctx, id1, newSnapshot(id1)))
		require.NoError(t, store.Save(ctx, id2, newSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		forms, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, forms, id1)
		assert.Contains(t, forms, id2)
	})
}
