package usecase

import (
	"context"
	"errors"
	"fmt"

	"pomodoro/internal/modules/session/domain"
	sessiondto "pomodoro/internal/modules/session/dto"
	sessionin "pomodoro/internal/modules/session/port/in"
	sessionout "pomodoro/internal/modules/session/port/out"
	"pomodoro/internal/modules/session/service"
	apperrors "pomodoro/internal/platform/errors"
)

type Interactor struct {
	svc         *service.SessionService
	activeStore sessionout.ActiveSessionStore
	watcher     sessionout.ChangeWatcher
	state       *State
}

func NewInteractor(svc *service.SessionService, activeStore sessionout.ActiveSessionStore, watcher sessionout.ChangeWatcher) sessionin.Usecase {
	return &Interactor{svc: svc, activeStore: activeStore, watcher: watcher, state: newState()}
}

func (i *Interactor) LoadSessions(ctx context.Context) sessiondto.SessionsOutput {
	done := i.state.beginLoad()
	defer done()

	records, backend, err := i.svc.LoadSessions(ctx)
	i.state.setRecords(records)
	return sessiondto.SessionsOutput{
		Sessions: i.toSessionOutputs(records),
		Backend:  string(backend),
		Err:      err,
	}
}

func (i *Interactor) LoadStats(ctx context.Context) sessiondto.LoadStatsOutput {
	done := i.state.beginLoad()
	defer done()

	stats, backend, err := i.svc.LoadStats(ctx)
	i.state.setStats(stats)
	return sessiondto.LoadStatsOutput{Stats: toStatsOutput(stats), Backend: string(backend), Err: err}
}

func (i *Interactor) SaveSession(ctx context.Context, input sessiondto.SaveInput) sessiondto.SaveOutput {
	record := domain.Record{
		ID:               input.ID,
		SessionType:      domain.SessionType(input.SessionType),
		DurationMinutes:  input.DurationMinutes,
		CompletedAt:      input.CompletedAt,
		WasCompleted:     input.WasCompleted,
		FocusTimeSeconds: input.FocusTimeSeconds,
	}
	return i.save(ctx, record)
}

func (i *Interactor) save(ctx context.Context, record domain.Record) sessiondto.SaveOutput {
	backend, err := i.svc.Save(ctx, record)
	if err != nil {
		return sessiondto.SaveOutput{Saved: false, Backend: string(backend), Err: err}
	}
	sessions := i.LoadSessions(ctx)
	stats := i.LoadStats(ctx)
	return sessiondto.SaveOutput{
		Saved:   true,
		Backend: string(backend),
		Err:     errors.Join(sessions.Err, stats.Err),
	}
}

// Start replaces whatever session was in flight; the replaced one is
// dropped without being saved.
func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	record, err := i.svc.Start(ctx, domain.SessionType(input.SessionType), input.DurationMinutes)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}

	replaced := ""
	if previous, err := i.loadActive(ctx); err == nil {
		replaced = previous.ID
	}
	if i.activeStore != nil {
		if err := i.activeStore.SaveActive(ctx, record); err != nil {
			return sessiondto.StartOutput{}, fmt.Errorf("store active session: %w", err)
		}
	}
	i.state.setCurrent(&record)
	return sessiondto.StartOutput{Session: i.toSessionOutput(record), Replaced: replaced}, nil
}

// Complete finalizes and saves the in-flight session. With nothing in flight
// it reports Completed=false and touches nothing.
func (i *Interactor) Complete(ctx context.Context, input sessiondto.CompleteInput) sessiondto.CompleteOutput {
	active, err := i.loadActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return sessiondto.CompleteOutput{Completed: false}
		}
		return sessiondto.CompleteOutput{Completed: false, Err: err}
	}

	record := i.svc.Finalize(active, input.WasCompleted, input.ActualFocusSeconds)
	saved := i.save(ctx, record)
	out := sessiondto.CompleteOutput{
		Completed: saved.Saved,
		Session:   i.toSessionOutput(record),
		Backend:   saved.Backend,
		Err:       saved.Err,
	}
	if !saved.Saved {
		return out
	}

	if i.activeStore != nil {
		if err := i.activeStore.ClearActive(ctx); err != nil {
			out.Err = errors.Join(out.Err, fmt.Errorf("clear active session: %w", err))
		}
	}
	i.state.setCurrent(nil)
	return out
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.SessionOutput, error) {
	active, err := i.loadActive(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toSessionOutput(active), nil
}

func (i *Interactor) ExportJournal(ctx context.Context) (sessiondto.ExportOutput, error) {
	records, _, err := i.svc.LoadSessions(ctx)
	if err != nil && len(records) == 0 {
		return sessiondto.ExportOutput{}, err
	}
	paths, err := i.svc.ExportJournal(ctx, records)
	return sessiondto.ExportOutput{Paths: paths}, err
}

// Watch reloads sessions and stats whenever the watcher reports a change.
// It blocks until ctx is done.
func (i *Interactor) Watch(ctx context.Context) error {
	if i.watcher == nil {
		return fmt.Errorf("change watcher is not configured")
	}
	return i.watcher.Watch(ctx, func() {
		i.LoadSessions(ctx)
		i.LoadStats(ctx)
	})
}

func (i *Interactor) Snapshot() sessiondto.StateOutput {
	return i.toStateOutput(i.state.snapshot())
}

func (i *Interactor) Subscribe(fn func(sessiondto.StateOutput)) func() {
	return i.state.subscribe(func(snap stateSnapshot) {
		fn(i.toStateOutput(snap))
	})
}

// loadActive prefers the in-process slot and falls back to the store so a
// session started by another process can be completed here.
func (i *Interactor) loadActive(ctx context.Context) (domain.Record, error) {
	if snap := i.state.snapshot(); snap.Current != nil {
		return *snap.Current, nil
	}
	if i.activeStore == nil {
		return domain.Record{}, apperrors.ErrNoActiveSession
	}
	return i.activeStore.LoadActive(ctx)
}

func (i *Interactor) toStateOutput(snap stateSnapshot) sessiondto.StateOutput {
	out := sessiondto.StateOutput{
		Version:  snap.Version,
		Sessions: i.toSessionOutputs(snap.Records),
		Stats:    toStatsOutput(snap.Stats),
		Loading:  snap.Loading,
	}
	for _, group := range domain.GroupByDate(snap.Records, i.svc.Location()) {
		out.Groups = append(out.Groups, sessiondto.DateGroupOutput{
			Date:     group.Label,
			Sessions: i.toSessionOutputs(group.Sessions),
		})
	}
	if snap.Current != nil {
		out.Current = i.toSessionOutput(*snap.Current)
		out.HasCurrent = true
	}
	return out
}

func (i *Interactor) toSessionOutputs(records []domain.Record) []sessiondto.SessionOutput {
	out := make([]sessiondto.SessionOutput, 0, len(records))
	for _, record := range records {
		out = append(out, i.toSessionOutput(record))
	}
	return out
}

func (i *Interactor) toSessionOutput(record domain.Record) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:               record.ID,
		SessionType:      string(record.SessionType),
		TypeName:         record.SessionType.DisplayName(),
		Color:            record.SessionType.Color(),
		DurationMinutes:  record.DurationMinutes,
		Duration:         domain.FormatDuration(record.DurationMinutes),
		CompletedAt:      record.CompletedAt,
		Time:             domain.FormatTime(record.CompletedAt, i.svc.Location()),
		WasCompleted:     record.WasCompleted,
		FocusTimeSeconds: record.FocusTimeSeconds,
		FocusMinutes:     record.FocusMinutes(),
	}
}

func toStatsOutput(stats domain.Stats) sessiondto.StatsOutput {
	today := stats.Today()
	total := stats.Total()
	return sessiondto.StatsOutput{
		TotalSessions:            stats.TotalSessions,
		CompletedSessions:        stats.CompletedSessions,
		TotalFocusTimeMinutes:    stats.TotalFocusTimeMinutes,
		TodaySessions:            stats.TodaySessions,
		TodayFocusTimeMinutes:    stats.TodayFocusTimeMinutes,
		ThisWeekSessions:         stats.ThisWeekSessions,
		ThisWeekFocusTimeMinutes: stats.ThisWeekFocusTimeMinutes,
		CompletionRate:           stats.CompletionRate,
		Today: sessiondto.TodayOutput{
			Sessions:  today.Sessions,
			FocusTime: today.FocusTime,
			Hours:     today.Hours,
			Minutes:   today.Minutes,
		},
		Total: sessiondto.TotalOutput{
			Sessions:       total.Sessions,
			Completed:      total.Completed,
			FocusTime:      total.FocusTime,
			Hours:          total.Hours,
			Minutes:        total.Minutes,
			CompletionRate: total.CompletionRate,
		},
	}
}
