package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	bridgeinadapter "pomodoro/internal/modules/bridge/adapter/in"
	bridgeoutadapter "pomodoro/internal/modules/bridge/adapter/out"
	bridgedomain "pomodoro/internal/modules/bridge/domain"
	bridgeservice "pomodoro/internal/modules/bridge/service"
	bridgeusecase "pomodoro/internal/modules/bridge/usecase"
	sessioninadapter "pomodoro/internal/modules/session/adapter/in"
	sessionoutadapter "pomodoro/internal/modules/session/adapter/out"
	sessiondomain "pomodoro/internal/modules/session/domain"
	sessiondto "pomodoro/internal/modules/session/dto"
	sessionin "pomodoro/internal/modules/session/port/in"
	sessionout "pomodoro/internal/modules/session/port/out"
	sessionservice "pomodoro/internal/modules/session/service"
	sessionusecase "pomodoro/internal/modules/session/usecase"
	"pomodoro/internal/platform/clock"
	"pomodoro/internal/platform/config"
	"pomodoro/internal/platform/id"
	"pomodoro/internal/platform/kvstore"
	"pomodoro/internal/platform/tx"
	uiapp "pomodoro/internal/ui/app"
)

// Mode selects where the in-flight session lives. The TUI keeps it in
// memory; one-shot CLI commands persist it between processes.
type Mode int

const (
	ModeCLI Mode = iota
	ModeTUI
)

type App struct {
	Config     config.Config
	Logger     *zap.Logger
	Sessions   sessionin.Usecase
	SessionCLI sessioninadapter.CLIHandler
	BridgeCLI  bridgeinadapter.CLIHandler
}

func New(cfg config.Config, logger *zap.Logger, mode Mode) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	bridgeUC := bridgeusecase.NewInteractor(bridgeservice.NewBridgeService(
		bridgeoutadapter.NewFileManifestStore(cfg.BridgeDir()),
		bridgeoutadapter.NewGRPCHost(),
		bridgedomain.InvokeContext{DataDir: cfg.DataDir, WeekStart: cfg.WeekStart},
	))

	var activeStore sessionout.ActiveSessionStore
	switch mode {
	case ModeTUI:
		activeStore = sessionoutadapter.NewMemoryActiveSessionStore()
	default:
		activeStore = sessionoutadapter.NewFileActiveSessionStore(cfg.ActiveSessionPath())
	}

	sessionSvc := sessionservice.NewSessionService(
		clock.SystemClock{},
		id.UUID{},
		sessionoutadapter.NewNativeBridgeAdapter(bridgeUC),
		sessionoutadapter.NewLocalSessionStore(kvstore.NewFile(cfg.LocalStorePath()), tx.NewSingleWriter()),
		sessionoutadapter.NewMarkdownJournal(cfg.JournalDir(), time.Local),
		sessionservice.Options{
			WeekStart: cfg.WeekStartDay(),
			Durations: sessiondomain.Durations{
				Focus:      cfg.FocusMinutes,
				ShortBreak: cfg.ShortBreakMinutes,
				LongBreak:  cfg.LongBreakMinutes,
			},
			Logger: logger.Named("session"),
		},
	)
	sessionUC := sessionusecase.NewInteractor(
		sessionSvc,
		activeStore,
		sessionoutadapter.NewFileWatcher(cfg.LocalStorePath()),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Sessions:   sessionUC,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		BridgeCLI:  bridgeinadapter.NewCLIHandler(bridgeUC),
	}, nil
}

// RunTUI blocks until the program exits. Store changes made by other
// processes reach the model through the watcher and the state subscription.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(uiapp.NewModel(app.Sessions), tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := app.Sessions.Subscribe(func(state sessiondto.StateOutput) {
		program.Send(uiapp.StateChangedMsg{State: state})
	})
	defer unsubscribe()

	go func() {
		if err := app.Sessions.Watch(ctx); err != nil {
			app.Logger.Warn("session store watcher stopped", zap.Error(err))
		}
	}()

	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
