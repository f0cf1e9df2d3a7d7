package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

// FileActiveSessionStore survives across CLI invocations, so `session start`
// and `session complete` can run in separate processes.
type FileActiveSessionStore struct {
	path string
}

func NewFileActiveSessionStore(path string) sessionout.ActiveSessionStore {
	return &FileActiveSessionStore{path: path}
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, session domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.Record, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Record{}, apperrors.ErrNoActiveSession
		}
		return domain.Record{}, fmt.Errorf("read active session: %w", err)
	}
	active := domain.Record{}
	if err := json.Unmarshal(payload, &active); err != nil {
		return domain.Record{}, fmt.Errorf("decode active session: %w", err)
	}
	if active.ID == "" {
		return domain.Record{}, apperrors.ErrNoActiveSession
	}
	return active, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}

// MemoryActiveSessionStore holds at most one in-flight session for the
// lifetime of the process.
type MemoryActiveSessionStore struct {
	mu      sync.Mutex
	current *domain.Record
}

func NewMemoryActiveSessionStore() sessionout.ActiveSessionStore {
	return &MemoryActiveSessionStore{}
}

func (s *MemoryActiveSessionStore) SaveActive(_ context.Context, session domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session
	return nil
}

func (s *MemoryActiveSessionStore) LoadActive(_ context.Context) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Record{}, apperrors.ErrNoActiveSession
	}
	return *s.current, nil
}

func (s *MemoryActiveSessionStore) ClearActive(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}
