package in

import (
	"context"

	"pomodoro/internal/modules/bridge/dto"
)

type Usecase interface {
	Available(ctx context.Context) bool
	Invoke(ctx context.Context, input dto.InvokeInput) (dto.InvokeOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Doctor(ctx context.Context) (dto.DoctorOutput, error)
}
