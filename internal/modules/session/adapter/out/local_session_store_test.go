package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	sessionstore "pomodoro/internal/modules/session/adapter/out"
	"pomodoro/internal/modules/session/domain"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/kvstore"
	"pomodoro/internal/platform/tx"
)

var at = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func record(id string) domain.Record {
	return domain.Record{ID: id, SessionType: domain.SessionFocus, DurationMinutes: 25, CompletedAt: at, WasCompleted: true, FocusTimeSeconds: 1500}
}

func TestLocalStoreEmptyAndAppend(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "local-storage.json")
	store := sessionstore.NewLocalSessionStore(kvstore.NewFile(path), tx.NewSingleWriter())
	ctx := context.Background()

	records, err := store.List(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty collection, got %v err=%v", records, err)
	}
	if err := store.Append(ctx, record("a")); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := store.Append(ctx, record("b")); err != nil {
		t.Fatalf("append b: %v", err)
	}
	records, err = store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]domain.Record{record("a"), record("b")}, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalStoreRejectsDuplicateID(t *testing.T) {
	t.Parallel()
	store := sessionstore.NewLocalSessionStore(kvstore.NewFile(filepath.Join(t.TempDir(), "kv.json")), nil)
	ctx := context.Background()
	if err := store.Append(ctx, record("a")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, record("a")); !errors.Is(err, apperrors.ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}
}

func TestLocalStoreMalformedValueReadsEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "kv.json")
	kv := kvstore.NewFile(path)
	if err := kv.Set(domain.LocalStorageKey, "not an array"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := sessionstore.NewLocalSessionStore(kv, nil)
	ctx := context.Background()

	records, err := store.List(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty collection, got %v err=%v", records, err)
	}
	if err := store.Append(ctx, record("a")); err != nil {
		t.Fatalf("append over malformed value: %v", err)
	}
	records, _ = store.List(ctx)
	if len(records) != 1 {
		t.Fatalf("expected malformed value to be replaced, got %v", records)
	}
}

func TestLocalStoreMalformedFileReadsEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "kv.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := sessionstore.NewLocalSessionStore(kvstore.NewFile(path), nil)
	records, err := store.List(context.Background())
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty collection, got %v err=%v", records, err)
	}
}

func TestLocalStoreConcurrentAppendsAreSerialized(t *testing.T) {
	t.Parallel()
	store := sessionstore.NewLocalSessionStore(kvstore.NewFile(filepath.Join(t.TempDir(), "kv.json")), tx.NewSingleWriter())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := store.Append(ctx, record(id)); err != nil {
				t.Errorf("append %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("expected 8 records without lost updates, got %d", len(records))
	}
}
