package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/kvstore"
	"pomodoro/internal/platform/tx"
)

// LocalSessionStore keeps the whole collection as one JSON array under
// domain.LocalStorageKey.
type LocalSessionStore struct {
	kv *kvstore.File
	tx tx.Manager
}

func NewLocalSessionStore(kv *kvstore.File, txm tx.Manager) *LocalSessionStore {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &LocalSessionStore{kv: kv, tx: txm}
}

var _ sessionout.SessionRepository = (*LocalSessionStore)(nil)

// List treats a missing or malformed value as an empty collection.
func (s *LocalSessionStore) List(_ context.Context) ([]domain.Record, error) {
	return s.read()
}

func (s *LocalSessionStore) Append(ctx context.Context, record domain.Record) error {
	return s.tx.Within(ctx, func(context.Context) error {
		records, err := s.read()
		if err != nil {
			return err
		}
		for _, existing := range records {
			if existing.ID == record.ID {
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateSession, record.ID)
			}
		}
		records = append(records, record)
		payload, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshal local sessions: %w", err)
		}
		if err := s.kv.Set(domain.LocalStorageKey, string(payload)); err != nil {
			return fmt.Errorf("write local sessions: %w", err)
		}
		return nil
	})
}

func (s *LocalSessionStore) read() ([]domain.Record, error) {
	value, ok, err := s.kv.Get(domain.LocalStorageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrMalformed) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("read local sessions: %w", err)
	}
	if !ok || value == "" {
		return []domain.Record{}, nil
	}
	records := []domain.Record{}
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return []domain.Record{}, nil
	}
	return records, nil
}
