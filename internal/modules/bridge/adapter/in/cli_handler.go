package in

import (
	"context"

	"pomodoro/internal/modules/bridge/dto"
	bridgein "pomodoro/internal/modules/bridge/port/in"
)

type CLIHandler struct {
	usecase bridgein.Usecase
}

func NewCLIHandler(usecase bridgein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) (dto.DoctorOutput, error) {
	return h.usecase.Doctor(ctx)
}
