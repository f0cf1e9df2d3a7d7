package in

import (
	"context"

	"pomodoro/internal/modules/session/dto"
)

type Usecase interface {
	LoadSessions(ctx context.Context) dto.SessionsOutput
	LoadStats(ctx context.Context) dto.LoadStatsOutput
	SaveSession(ctx context.Context, input dto.SaveInput) dto.SaveOutput
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) dto.CompleteOutput
	GetActive(ctx context.Context) (dto.SessionOutput, error)
	ExportJournal(ctx context.Context) (dto.ExportOutput, error)
	Watch(ctx context.Context) error
	Snapshot() dto.StateOutput
	Subscribe(fn func(dto.StateOutput)) (unsubscribe func())
}
