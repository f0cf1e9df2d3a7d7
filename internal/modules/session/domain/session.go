package domain

import (
	"fmt"
	"time"
)

const (
	SchemaVersion = 1

	// LocalStorageKey is the single key holding the whole record collection
	// in the local fallback store.
	LocalStorageKey = "pomodoro_sessions"
)

type SessionType string

const (
	SessionFocus      SessionType = "focus"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

func (t SessionType) Validate() error {
	switch t {
	case SessionFocus, SessionShortBreak, SessionLongBreak:
		return nil
	default:
		return fmt.Errorf("unknown session type: %q", string(t))
	}
}

// Record is one finished (or abandoned) session. The in-flight session uses
// the same shape with provisional CompletedAt and zero FocusTimeSeconds.
type Record struct {
	ID               string      `json:"id"`
	SessionType      SessionType `json:"session_type"`
	DurationMinutes  int         `json:"duration_minutes"`
	CompletedAt      time.Time   `json:"completed_at"`
	WasCompleted     bool        `json:"was_completed"`
	FocusTimeSeconds int         `json:"focus_time_seconds"`
}

func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if err := r.SessionType.Validate(); err != nil {
		return err
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("duration minutes must be positive, got %d", r.DurationMinutes)
	}
	if r.FocusTimeSeconds < 0 {
		return fmt.Errorf("focus time seconds must be non-negative, got %d", r.FocusTimeSeconds)
	}
	return nil
}

// FocusMinutes is the focus time credited to the record: the planned length
// when it ran to the end, otherwise the whole minutes actually spent.
func (r Record) FocusMinutes() int {
	if r.WasCompleted {
		return r.DurationMinutes
	}
	return r.FocusTimeSeconds / 60
}

// NewInFlight builds the provisional record tracked between start and
// completion.
func NewInFlight(id string, sessionType SessionType, durationMinutes int, now time.Time) (Record, error) {
	record := Record{
		ID:              id,
		SessionType:     sessionType,
		DurationMinutes: durationMinutes,
		CompletedAt:     now,
	}
	if err := record.Validate(); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Finalize stamps completion data onto an in-flight record. A nil or zero
// actualFocusSeconds means "not measured": completed sessions are credited
// the full planned length and abandoned ones get zero.
func (r Record) Finalize(now time.Time, wasCompleted bool, actualFocusSeconds *int) Record {
	r.CompletedAt = now
	r.WasCompleted = wasCompleted
	switch {
	case actualFocusSeconds != nil && *actualFocusSeconds > 0:
		r.FocusTimeSeconds = *actualFocusSeconds
	case wasCompleted:
		r.FocusTimeSeconds = r.DurationMinutes * 60
	default:
		r.FocusTimeSeconds = 0
	}
	return r
}

// Durations holds the planned length used when a session is started
// without an explicit one.
type Durations struct {
	Focus      int
	ShortBreak int
	LongBreak  int
}

func DefaultDurations() Durations {
	return Durations{Focus: 25, ShortBreak: 5, LongBreak: 15}
}

func (d Durations) For(t SessionType) int {
	switch t {
	case SessionFocus:
		return d.Focus
	case SessionShortBreak:
		return d.ShortBreak
	case SessionLongBreak:
		return d.LongBreak
	default:
		return 0
	}
}
