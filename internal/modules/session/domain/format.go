package domain

import (
	"fmt"
	"slices"
	"time"
)

const defaultTypeColor = "#999"

var (
	typeNames = map[SessionType]string{
		SessionFocus:      "Focus",
		SessionShortBreak: "Short Break",
		SessionLongBreak:  "Long Break",
	}
	typeColors = map[SessionType]string{
		SessionFocus:      "#ff6347",
		SessionShortBreak: "#4CAF50",
		SessionLongBreak:  "#2196F3",
	}
)

// DisplayName falls back to the raw value for unknown types.
func (t SessionType) DisplayName() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return string(t)
}

func (t SessionType) Color() string {
	if color, ok := typeColors[t]; ok {
		return color
	}
	return defaultTypeColor
}

type DateGroup struct {
	Day      time.Time
	Label    string
	Sessions []Record
}

// GroupByDate buckets records by calendar date in loc. Groups are ordered
// newest date first and records inside a group newest first.
func GroupByDate(records []Record, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.Local
	}
	index := map[string]int{}
	groups := []DateGroup{}
	for _, record := range records {
		day := StartOfDay(record.CompletedAt.In(loc))
		key := day.Format(time.DateOnly)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Day: day, Label: day.Format("Mon Jan 02 2006")})
		}
		groups[i].Sessions = append(groups[i].Sessions, record)
	}
	slices.SortFunc(groups, func(a, b DateGroup) int {
		return b.Day.Compare(a.Day)
	})
	for i := range groups {
		slices.SortStableFunc(groups[i].Sessions, func(a, b Record) int {
			return b.CompletedAt.Compare(a.CompletedAt)
		})
	}
	return groups
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// FormatTime renders t's wall-clock time in loc as HH:MM.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}
