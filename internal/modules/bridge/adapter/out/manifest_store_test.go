package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	bridgeout "pomodoro/internal/modules/bridge/adapter/out"
	"pomodoro/internal/modules/bridge/domain"
)

func TestFileManifestStoreLoadMissing(t *testing.T) {
	t.Parallel()
	store := bridgeout.NewFileManifestStore(t.TempDir())
	if _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `{
  "name": "native",
  "version": "1.0.0",
  "binary": "bin/pomodoro-native",
  "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
  "enabled": true
}`
	if err := os.WriteFile(filepath.Join(dir, "bridge.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write bridge.json: %v", err)
	}
	manifest, err := bridgeout.NewFileManifestStore(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if want := filepath.Join(dir, "bin", "pomodoro-native"); manifest.Binary != want {
		t.Fatalf("expected %s, got %s", want, manifest.Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `{
  "name": "native",
  "version": "1.0.0",
  "binary": "/tmp/pomodoro-native",
  "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
  "enabled": true,
  "capabilities": ["command"]
}`
	if err := os.WriteFile(filepath.Join(dir, "bridge.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write bridge.json: %v", err)
	}
	if _, err := bridgeout.NewFileManifestStore(dir).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
