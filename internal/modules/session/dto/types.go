package dto

import "time"

const (
	BackendNative = "native"
	BackendLocal  = "local"
)

type SessionOutput struct {
	ID               string
	SessionType      string
	TypeName         string
	Color            string
	DurationMinutes  int
	Duration         string
	CompletedAt      time.Time
	Time             string
	WasCompleted     bool
	FocusTimeSeconds int
	FocusMinutes     int
}

type DateGroupOutput struct {
	Date     string
	Sessions []SessionOutput
}

type TodayOutput struct {
	Sessions  int
	FocusTime int
	Hours     int
	Minutes   int
}

type TotalOutput struct {
	Sessions       int
	Completed      int
	FocusTime      int
	Hours          int
	Minutes        int
	CompletionRate int
}

type StatsOutput struct {
	TotalSessions            int
	CompletedSessions        int
	TotalFocusTimeMinutes    int
	TodaySessions            int
	TodayFocusTimeMinutes    int
	ThisWeekSessions         int
	ThisWeekFocusTimeMinutes int
	CompletionRate           int
	Today                    TodayOutput
	Total                    TotalOutput
}

// Err on the load/save outputs is a diagnostic: the operation still produced
// a usable (possibly empty) value.

type SessionsOutput struct {
	Sessions []SessionOutput
	Backend  string
	Err      error
}

type LoadStatsOutput struct {
	Stats   StatsOutput
	Backend string
	Err     error
}

type SaveInput struct {
	ID               string
	SessionType      string
	DurationMinutes  int
	CompletedAt      time.Time
	WasCompleted     bool
	FocusTimeSeconds int
}

type SaveOutput struct {
	Saved   bool
	Backend string
	Err     error
}

type StartInput struct {
	SessionType     string
	DurationMinutes int
}

type StartOutput struct {
	Session  SessionOutput
	Replaced string
}

type CompleteInput struct {
	WasCompleted       bool
	ActualFocusSeconds *int
}

type CompleteOutput struct {
	Completed bool
	Session   SessionOutput
	Backend   string
	Err       error
}

type ExportOutput struct {
	Paths []string
}

// StateOutput is one snapshot of the observable state. Version grows with
// every change; a lower Version is an older snapshot.
type StateOutput struct {
	Version    uint64
	Sessions   []SessionOutput
	Groups     []DateGroupOutput
	Stats      StatsOutput
	Loading    bool
	Current    SessionOutput
	HasCurrent bool
}
