package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	bridgerpc "pomodoro/internal/modules/bridge/adapter/out/rpc"
	bridgedomain "pomodoro/internal/modules/bridge/domain"
	sessionstore "pomodoro/internal/modules/session/adapter/out"
	"pomodoro/internal/modules/session/domain"
	"pomodoro/internal/platform/config"
	apperrors "pomodoro/internal/platform/errors"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	name    = "pomodoro-native"
	version = "1.0.0"
	dbFile  = "native.db"
)

type server struct {
	now func() time.Time
}

func (s *server) GetMetadata(_ context.Context, _ *bridgerpc.Empty) (*bridgerpc.Metadata, error) {
	commands := make([]string, 0, len(bridgedomain.Commands()))
	for _, command := range bridgedomain.Commands() {
		commands = append(commands, string(command))
	}
	return &bridgerpc.Metadata{Name: name, Version: version, Commands: commands}, nil
}

func (s *server) Invoke(ctx context.Context, in *bridgerpc.InvokeRequest) (*bridgerpc.InvokeResponse, error) {
	if in.Context.DataDir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	store, err := sessionstore.NewSQLiteSessionStore(filepath.Join(in.Context.DataDir, dbFile))
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var result any
	switch bridgedomain.Command(in.Command) {
	case bridgedomain.CommandLoadSessions:
		records, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		result = map[string]any{"sessions": records}
	case bridgedomain.CommandGetSessionStats:
		weekStart, err := config.ParseWeekday(in.Context.WeekStart)
		if err != nil {
			weekStart = time.Sunday
		}
		records, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		result = domain.CalculateStats(records, s.now(), weekStart)
	case bridgedomain.CommandSaveSession:
		var args struct {
			Session domain.Record `json:"session"`
		}
		if err := json.Unmarshal([]byte(in.ArgsJSON), &args); err != nil {
			return nil, fmt.Errorf("decode save_session args: %w", err)
		}
		if err := args.Session.Validate(); err != nil {
			return nil, err
		}
		if err := store.Append(ctx, args.Session); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateSession) {
				return nil, status.Error(codes.AlreadyExists, err.Error())
			}
			return nil, err
		}
		result = map[string]any{"saved": true}
	default:
		return nil, fmt.Errorf("%w: %s", bridgedomain.ErrUnknownCommand, in.Command)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", in.Command, err)
	}
	return &bridgerpc.InvokeResponse{ResultJSON: string(raw)}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: bridgerpc.HandshakeConfig,
		Plugins:         bridgerpc.PluginMap(&server{now: time.Now}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
