package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/formstate/pkg/adapters/memory"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/persistence/middleware"
	"github.com/aretw0/formstate/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.SnapshotStore, cfg middleware.EncryptionConfig) ports.SnapshotStore {
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatalf("NewEncryptionMiddleware: %v", err)
	}
	return mw(next)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	snap := &domain.Snapshot{
		FormID: "signup",
		Value:  map[string]any{"secret": "my-secret-sauce"},
		Errors: map[string][]string{"secret": {"too guessable"}},
	}
	if err := secure.Save(ctx, "signup", snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlying.Load(ctx, "signup")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if val, ok := stored.Value["secret"]; ok {
		t.Fatalf("Expected secret to be hidden, found: %v", val)
	}
	if len(stored.Errors) != 0 {
		t.Fatalf("Expected errors to be hidden, found: %v", stored.Errors)
	}
	if stored.FormID != "signup" {
		t.Errorf("Expected form ID to stay readable, got %q", stored.FormID)
	}

	loaded, err := secure.Load(ctx, "signup")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Value["secret"] != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", loaded.Value["secret"])
	}
	if loaded.Errors["secret"][0] != "too guessable" {
		t.Errorf("Expected errors to survive, got %v", loaded.Errors)
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	if err := oldStore.Save(ctx, "f", &domain.Snapshot{FormID: "f", Value: map[string]any{"data": "old"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	newStore := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := newStore.Load(ctx, "f")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Value["data"] != "old" {
		t.Errorf("Decryption with fallback key failed")
	}

	loaded.Value["data"] = "new"
	if err := newStore.Save(ctx, "f", loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := oldStore.Load(ctx, "f"); err == nil {
		t.Error("Expected failure when loading new-key data with only the old key")
	}
}

func TestEncryptionMiddleware_PlainSnapshotRejected(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	if err := underlying.Save(ctx, "plain", &domain.Snapshot{FormID: "plain", Value: map[string]any{"a": 1}}); err != nil {
		t.Fatal(err)
	}

	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if _, err := secure.Load(ctx, "plain"); err == nil {
		t.Error("Expected an error for a snapshot without envelope")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
}
