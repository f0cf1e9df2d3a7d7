package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DataDir           string `env:"POMODORO_DATA_DIR"`
	Env               string `env:"POMODORO_ENV" envDefault:"dev"`
	LogLevel          string `env:"POMODORO_LOG_LEVEL" envDefault:"info"`
	WeekStart         string `env:"POMODORO_WEEK_START" envDefault:"sunday"`
	FocusMinutes      int    `env:"POMODORO_FOCUS_MINUTES" envDefault:"25"`
	ShortBreakMinutes int    `env:"POMODORO_SHORT_BREAK_MINUTES" envDefault:"5"`
	LongBreakMinutes  int    `env:"POMODORO_LONG_BREAK_MINUTES" envDefault:"15"`
}

// Load reads .env (if present) and POMODORO_* variables. A non-empty
// dataDir overrides the environment; with neither set the data lives in
// DefaultDataDir.
func Load(dataDir string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	if _, err := ParseWeekday(c.WeekStart); err != nil {
		return err
	}
	for name, minutes := range map[string]int{
		"focus":       c.FocusMinutes,
		"short break": c.ShortBreakMinutes,
		"long break":  c.LongBreakMinutes,
	} {
		if minutes <= 0 {
			return fmt.Errorf("%s minutes must be positive, got %d", name, minutes)
		}
	}
	return nil
}

func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pomodoro")
	}
	return ".pomodoro"
}

func (c Config) WeekStartDay() time.Weekday {
	day, _ := ParseWeekday(c.WeekStart)
	return day
}

func (c Config) LocalStorePath() string {
	return filepath.Join(c.DataDir, "local-storage.json")
}

func (c Config) ActiveSessionPath() string {
	return filepath.Join(c.DataDir, "active-session.json")
}

func (c Config) JournalDir() string {
	return filepath.Join(c.DataDir, "journal")
}

func (c Config) BridgeDir() string {
	return filepath.Join(c.DataDir, "bridge")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "pomodoro.log")
}

func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday", "sun", "":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("unknown week start day: %q", name)
	}
}
