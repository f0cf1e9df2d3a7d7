package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"pomodoro/internal/platform/config"
)

func TestLoadUsesEnvDefaultsAndDataDirOverride(t *testing.T) {
	t.Setenv("POMODORO_DATA_DIR", "/from/env")
	t.Setenv("POMODORO_WEEK_START", "monday")
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DataDir != dir {
		t.Fatalf("expected flag data dir to win, got %s", cfg.DataDir)
	}
	if cfg.FocusMinutes != 25 || cfg.ShortBreakMinutes != 5 || cfg.LongBreakMinutes != 15 {
		t.Fatalf("unexpected default minutes: %+v", cfg)
	}
	if cfg.WeekStartDay() != time.Monday {
		t.Fatalf("expected monday week start, got %s", cfg.WeekStartDay())
	}
	if cfg.LocalStorePath() != filepath.Join(dir, "local-storage.json") {
		t.Fatalf("unexpected local store path: %s", cfg.LocalStorePath())
	}
}

func TestLoadFallsBackToDefaultDataDir(t *testing.T) {
	t.Setenv("POMODORO_DATA_DIR", "")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DataDir != config.DefaultDataDir() {
		t.Fatalf("expected default data dir %s, got %s", config.DefaultDataDir(), cfg.DataDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	if err := (config.Config{WeekStart: "sunday", FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1}).Validate(); err == nil {
		t.Fatalf("expected missing data dir to fail")
	}

	t.Setenv("POMODORO_WEEK_START", "someday")
	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatalf("expected unknown week start to fail")
	}

	t.Setenv("POMODORO_WEEK_START", "sunday")
	t.Setenv("POMODORO_FOCUS_MINUTES", "0")
	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatalf("expected non-positive focus minutes to fail")
	}
}
