package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	sessionstore "pomodoro/internal/modules/session/adapter/out"
	"pomodoro/internal/modules/session/domain"
	apperrors "pomodoro/internal/platform/errors"
)

func TestSQLiteSessionStoreAppendAndList(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "native.db")
	store, err := sessionstore.NewSQLiteSessionStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	abandoned := record("b")
	abandoned.SessionType = domain.SessionShortBreak
	abandoned.WasCompleted = false
	abandoned.FocusTimeSeconds = 90
	for _, r := range []domain.Record{record("a"), abandoned} {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append %s: %v", r.ID, err)
		}
	}
	if err := store.Append(ctx, record("a")); !errors.Is(err, apperrors.ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := sessionstore.NewSQLiteSessionStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	records, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]domain.Record{record("a"), abandoned}, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}
