package out

import (
	"context"
	"encoding/json"
	"fmt"

	bridgedto "pomodoro/internal/modules/bridge/dto"
	bridgein "pomodoro/internal/modules/bridge/port/in"
	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
)

// NativeBridgeAdapter speaks the session commands of the native host
// through the bridge module.
type NativeBridgeAdapter struct {
	bridge bridgein.Usecase
}

func NewNativeBridgeAdapter(bridge bridgein.Usecase) sessionout.NativeBridge {
	return &NativeBridgeAdapter{bridge: bridge}
}

func (a *NativeBridgeAdapter) Available(ctx context.Context) bool {
	return a.bridge != nil && a.bridge.Available(ctx)
}

func (a *NativeBridgeAdapter) LoadSessions(ctx context.Context) ([]domain.Record, error) {
	var payload struct {
		Sessions []domain.Record `json:"sessions"`
	}
	if err := a.invoke(ctx, "load_sessions", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Sessions == nil {
		payload.Sessions = []domain.Record{}
	}
	return payload.Sessions, nil
}

func (a *NativeBridgeAdapter) GetStats(ctx context.Context) (domain.Stats, error) {
	stats := domain.Stats{}
	if err := a.invoke(ctx, "get_session_stats", nil, &stats); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

func (a *NativeBridgeAdapter) SaveSession(ctx context.Context, record domain.Record) error {
	args := map[string]any{"session": record}
	return a.invoke(ctx, "save_session", args, nil)
}

func (a *NativeBridgeAdapter) invoke(ctx context.Context, command string, args any, out any) error {
	input := bridgedto.InvokeInput{Command: command}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encode %s args: %w", command, err)
		}
		input.ArgsJSON = string(raw)
	}
	result, err := a.bridge.Invoke(ctx, input)
	if err != nil {
		return err
	}
	if out == nil || result.ResultJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(result.ResultJSON), out); err != nil {
		return fmt.Errorf("decode %s result: %w", command, err)
	}
	return nil
}
