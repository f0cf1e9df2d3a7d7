package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sessionstore "pomodoro/internal/modules/session/adapter/out"
	sessionout "pomodoro/internal/modules/session/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

func TestActiveSessionStores(t *testing.T) {
	t.Parallel()
	stores := map[string]func(t *testing.T) sessionout.ActiveSessionStore{
		"file": func(t *testing.T) sessionout.ActiveSessionStore {
			return sessionstore.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "active-session.json"))
		},
		"memory": func(*testing.T) sessionout.ActiveSessionStore {
			return sessionstore.NewMemoryActiveSessionStore()
		},
	}
	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := build(t)
			ctx := context.Background()

			if _, err := store.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
				t.Fatalf("expected ErrNoActiveSession, got %v", err)
			}
			if err := store.SaveActive(ctx, record("first")); err != nil {
				t.Fatalf("save first: %v", err)
			}
			if err := store.SaveActive(ctx, record("second")); err != nil {
				t.Fatalf("save second: %v", err)
			}
			active, err := store.LoadActive(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if active.ID != "second" || !active.CompletedAt.Equal(at) {
				t.Fatalf("expected overwrite by second, got %+v", active)
			}
			if err := store.ClearActive(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if err := store.ClearActive(ctx); err != nil {
				t.Fatalf("clear twice: %v", err)
			}
			if _, err := store.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
				t.Fatalf("expected cleared slot, got %v", err)
			}
		})
	}
}
