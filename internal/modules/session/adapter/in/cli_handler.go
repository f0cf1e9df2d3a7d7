package in

import (
	"context"

	sessiondto "pomodoro/internal/modules/session/dto"
	sessionin "pomodoro/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, sessionType string, minutes int) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{SessionType: sessionType, DurationMinutes: minutes})
}

// Complete marks the in-flight session finished, or stopped early when
// abandoned is set. focusSeconds <= 0 means "not measured".
func (h CLIHandler) Complete(ctx context.Context, abandoned bool, focusSeconds int) sessiondto.CompleteOutput {
	input := sessiondto.CompleteInput{WasCompleted: !abandoned}
	if focusSeconds > 0 {
		input.ActualFocusSeconds = &focusSeconds
	}
	return h.usecase.Complete(ctx, input)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) List(ctx context.Context) sessiondto.SessionsOutput {
	return h.usecase.LoadSessions(ctx)
}

// Groups loads the collection and returns it bucketed by calendar date.
func (h CLIHandler) Groups(ctx context.Context) ([]sessiondto.DateGroupOutput, error) {
	out := h.usecase.LoadSessions(ctx)
	return h.usecase.Snapshot().Groups, out.Err
}

func (h CLIHandler) Stats(ctx context.Context) sessiondto.LoadStatsOutput {
	return h.usecase.LoadStats(ctx)
}

func (h CLIHandler) ExportJournal(ctx context.Context) (sessiondto.ExportOutput, error) {
	return h.usecase.ExportJournal(ctx)
}
