package usecase

import (
	"context"

	"pomodoro/internal/modules/bridge/dto"
	bridgein "pomodoro/internal/modules/bridge/port/in"
	"pomodoro/internal/modules/bridge/service"
)

type Interactor struct {
	svc *service.BridgeService
}

func NewInteractor(svc *service.BridgeService) bridgein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Available(ctx context.Context) bool {
	return i.svc.Available(ctx)
}

func (i *Interactor) Invoke(ctx context.Context, input dto.InvokeInput) (dto.InvokeOutput, error) {
	return i.svc.Invoke(ctx, input)
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	return i.svc.Status(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) (dto.DoctorOutput, error) {
	return i.svc.Doctor(ctx)
}
