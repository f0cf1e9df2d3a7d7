package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrManifestMissing  = errors.New("bridge manifest not found")
	ErrBridgeDisabled   = errors.New("bridge is disabled")
	ErrChecksumMismatch = errors.New("bridge checksum mismatch")
	ErrBridgeTimeout    = errors.New("bridge timeout")
	ErrUnknownCommand   = errors.New("unknown bridge command")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes the native host binary.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("bridge name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("bridge version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("bridge binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("bridge sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Command string

const (
	CommandLoadSessions    Command = "load_sessions"
	CommandGetSessionStats Command = "get_session_stats"
	CommandSaveSession     Command = "save_session"
)

func Commands() []Command {
	return []Command{CommandLoadSessions, CommandGetSessionStats, CommandSaveSession}
}

func (c Command) Validate() error {
	switch c {
	case CommandLoadSessions, CommandGetSessionStats, CommandSaveSession:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, string(c))
	}
}

type Metadata struct {
	Name     string
	Version  string
	Commands []string
}

// InvokeContext travels with every call so the host can locate its own
// storage and share the week boundary with the caller.
type InvokeContext struct {
	DataDir   string
	WeekStart string
}

type InvokeRequest struct {
	Command  Command
	ArgsJSON string
	Context  InvokeContext
}

func (r InvokeRequest) Validate() error {
	if err := r.Command.Validate(); err != nil {
		return err
	}
	if r.ArgsJSON != "" && !json.Valid([]byte(r.ArgsJSON)) {
		return fmt.Errorf("args must be valid JSON")
	}
	if r.Context.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	return nil
}
