package out

import (
	"context"

	"pomodoro/internal/modules/session/domain"
)

// SessionRepository is an append-only record collection.
type SessionRepository interface {
	List(ctx context.Context) ([]domain.Record, error)
	Append(ctx context.Context, record domain.Record) error
}

// NativeBridge reaches the host-provided backend. Available is probed before
// every call; a false result or any call error sends the caller to the local
// repository.
type NativeBridge interface {
	Available(ctx context.Context) bool
	LoadSessions(ctx context.Context) ([]domain.Record, error)
	GetStats(ctx context.Context) (domain.Stats, error)
	SaveSession(ctx context.Context, record domain.Record) error
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.Record) error
	LoadActive(ctx context.Context) (domain.Record, error)
	ClearActive(ctx context.Context) error
}

type JournalWriter interface {
	WriteDay(ctx context.Context, group domain.DateGroup) (string, error)
}

type ChangeWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}
