package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	apperrors "pomodoro/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore is the native host's session table.
type SQLiteSessionStore struct {
	db *sql.DB
}

var _ sessionout.SessionRepository = (*SQLiteSessionStore)(nil)

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  session_type TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  completed_at TEXT NOT NULL,
  was_completed INTEGER NOT NULL,
  focus_time_seconds INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_type, duration_minutes, completed_at, was_completed, focus_time_seconds
FROM sessions
ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		var (
			record       domain.Record
			sessionType  string
			completedAt  string
			wasCompleted int
		)
		if err := rows.Scan(&record.ID, &sessionType, &record.DurationMinutes, &completedAt, &wasCompleted, &record.FocusTimeSeconds); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		record.SessionType = domain.SessionType(sessionType)
		record.WasCompleted = wasCompleted != 0
		record.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at of %s: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

func (s *SQLiteSessionStore) Append(ctx context.Context, record domain.Record) error {
	const stmt = `
INSERT INTO sessions (id, session_type, duration_minutes, completed_at, was_completed, focus_time_seconds)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`
	wasCompleted := 0
	if record.WasCompleted {
		wasCompleted = 1
	}
	result, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		string(record.SessionType),
		record.DurationMinutes,
		record.CompletedAt.Format(time.RFC3339Nano),
		wasCompleted,
		record.FocusTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateSession, record.ID)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
