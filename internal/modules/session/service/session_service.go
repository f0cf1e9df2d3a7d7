package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	"pomodoro/internal/platform/clock"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/id"
)

type Backend string

const (
	BackendNative Backend = "native"
	BackendLocal  Backend = "local"
)

type Options struct {
	WeekStart time.Weekday
	Durations domain.Durations
	Logger    *zap.Logger
}

// SessionService picks a persistence backend per call: the native bridge
// when it answers, otherwise the local repository.
type SessionService struct {
	clock     clock.Clock
	idGen     id.Generator
	bridge    sessionout.NativeBridge
	local     sessionout.SessionRepository
	journal   sessionout.JournalWriter
	weekStart time.Weekday
	durations domain.Durations
	log       *zap.Logger
}

func NewSessionService(clock clock.Clock, idGen id.Generator, bridge sessionout.NativeBridge, local sessionout.SessionRepository, journal sessionout.JournalWriter, opts Options) *SessionService {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	durations := opts.Durations
	if durations == (domain.Durations{}) {
		durations = domain.DefaultDurations()
	}
	return &SessionService{
		clock:     clock,
		idGen:     idGen,
		bridge:    bridge,
		local:     local,
		journal:   journal,
		weekStart: opts.WeekStart,
		durations: durations,
		log:       log,
	}
}

func (s *SessionService) Location() *time.Location {
	return s.clock.Now().Location()
}

// LoadSessions never fails to produce a collection. The returned error, when
// set, explains why the result came from the fallback or is empty.
func (s *SessionService) LoadSessions(ctx context.Context) ([]domain.Record, Backend, error) {
	var bridgeErr error
	if s.bridgeAvailable(ctx) {
		records, err := s.bridge.LoadSessions(ctx)
		if err == nil {
			s.log.Debug("loaded sessions from native bridge", zap.Int("count", len(records)))
			return records, BackendNative, nil
		}
		bridgeErr = fmt.Errorf("native load_sessions: %w", err)
		s.log.Warn("native bridge failed, falling back to local store", zap.String("command", "load_sessions"), zap.Error(err))
	}

	records, err := s.local.List(ctx)
	if err != nil {
		s.log.Error("load sessions from local store", zap.Error(err))
		return []domain.Record{}, BackendLocal, errors.Join(bridgeErr, err)
	}
	s.log.Debug("loaded sessions from local store", zap.Int("count", len(records)))
	return records, BackendLocal, bridgeErr
}

// LoadStats asks the bridge for precomputed stats and otherwise aggregates
// the local collection.
func (s *SessionService) LoadStats(ctx context.Context) (domain.Stats, Backend, error) {
	var bridgeErr error
	if s.bridgeAvailable(ctx) {
		stats, err := s.bridge.GetStats(ctx)
		if err == nil {
			return stats, BackendNative, nil
		}
		bridgeErr = fmt.Errorf("native get_session_stats: %w", err)
		s.log.Warn("native bridge failed, calculating stats locally", zap.String("command", "get_session_stats"), zap.Error(err))
	}

	records, err := s.local.List(ctx)
	if err != nil {
		s.log.Error("load sessions for stats from local store", zap.Error(err))
		records = nil
		bridgeErr = errors.Join(bridgeErr, err)
	}
	return domain.CalculateStats(records, s.clock.Now(), s.weekStart), BackendLocal, bridgeErr
}

func (s *SessionService) Save(ctx context.Context, record domain.Record) (Backend, error) {
	if err := record.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if s.bridgeAvailable(ctx) {
		err := s.bridge.SaveSession(ctx, record)
		if err == nil {
			s.log.Info("session saved", zap.String("backend", string(BackendNative)), zap.String("id", record.ID))
			return BackendNative, nil
		}
		// a retry of a save the host already committed
		if errors.Is(err, apperrors.ErrDuplicateSession) {
			s.log.Info("session already saved", zap.String("backend", string(BackendNative)), zap.String("id", record.ID))
			return BackendNative, nil
		}
		s.log.Warn("native bridge failed, falling back to local store", zap.String("command", "save_session"), zap.Error(err))
	}

	if err := s.local.Append(ctx, record); err != nil {
		s.log.Error("save session to local store", zap.String("id", record.ID), zap.Error(err))
		return BackendLocal, err
	}
	s.log.Info("session saved", zap.String("backend", string(BackendLocal)), zap.String("id", record.ID))
	return BackendLocal, nil
}

// Start builds a new in-flight record. minutes <= 0 selects the configured
// default for the type.
func (s *SessionService) Start(_ context.Context, sessionType domain.SessionType, minutes int) (domain.Record, error) {
	if err := sessionType.Validate(); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if minutes <= 0 {
		minutes = s.durations.For(sessionType)
	}
	record, err := domain.NewInFlight(s.idGen.New(), sessionType, minutes, s.clock.Now())
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return record, nil
}

func (s *SessionService) Finalize(active domain.Record, wasCompleted bool, actualFocusSeconds *int) domain.Record {
	return active.Finalize(s.clock.Now(), wasCompleted, actualFocusSeconds)
}

func (s *SessionService) Stats(records []domain.Record) domain.Stats {
	return domain.CalculateStats(records, s.clock.Now(), s.weekStart)
}

// ExportJournal writes one note per calendar day of records.
func (s *SessionService) ExportJournal(ctx context.Context, records []domain.Record) ([]string, error) {
	if s.journal == nil {
		return nil, fmt.Errorf("journal writer is not configured")
	}
	groups := domain.GroupByDate(records, s.Location())
	paths := make([]string, 0, len(groups))
	for _, group := range groups {
		path, err := s.journal.WriteDay(ctx, group)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	s.log.Info("journal exported", zap.Int("days", len(paths)))
	return paths, nil
}

func (s *SessionService) bridgeAvailable(ctx context.Context) bool {
	return s.bridge != nil && s.bridge.Available(ctx)
}
