package domain

import (
	"math"
	"time"
)

type Stats struct {
	TotalSessions            int `json:"total_sessions"`
	CompletedSessions        int `json:"completed_sessions"`
	TotalFocusTimeMinutes    int `json:"total_focus_time_minutes"`
	TodaySessions            int `json:"today_sessions"`
	TodayFocusTimeMinutes    int `json:"today_focus_time_minutes"`
	ThisWeekSessions         int `json:"this_week_sessions"`
	ThisWeekFocusTimeMinutes int `json:"this_week_focus_time_minutes"`
	CompletionRate           int `json:"completion_rate"`
}

type TodayView struct {
	Sessions  int
	FocusTime int
	Hours     int
	Minutes   int
}

type TotalView struct {
	Sessions       int
	Completed      int
	FocusTime      int
	Hours          int
	Minutes        int
	CompletionRate int
}

func (s Stats) Today() TodayView {
	return TodayView{
		Sessions:  s.TodaySessions,
		FocusTime: s.TodayFocusTimeMinutes,
		Hours:     s.TodayFocusTimeMinutes / 60,
		Minutes:   s.TodayFocusTimeMinutes % 60,
	}
}

func (s Stats) Total() TotalView {
	return TotalView{
		Sessions:       s.TotalSessions,
		Completed:      s.CompletedSessions,
		FocusTime:      s.TotalFocusTimeMinutes,
		Hours:          s.TotalFocusTimeMinutes / 60,
		Minutes:        s.TotalFocusTimeMinutes % 60,
		CompletionRate: s.CompletionRate,
	}
}

// CalculateStats aggregates records relative to now. Session counts cover
// every type; focus minutes and the today/week figures only count focus
// sessions. Dates are compared in now's location.
func CalculateStats(records []Record, now time.Time, weekStart time.Weekday) Stats {
	loc := now.Location()
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	week := StartOfWeek(now, weekStart)

	stats := Stats{TotalSessions: len(records)}
	for _, record := range records {
		if record.WasCompleted {
			stats.CompletedSessions++
		}
		if record.SessionType != SessionFocus {
			continue
		}
		minutes := record.FocusMinutes()
		stats.TotalFocusTimeMinutes += minutes

		at := record.CompletedAt.In(loc)
		if !at.Before(today) && at.Before(tomorrow) {
			stats.TodaySessions++
			stats.TodayFocusTimeMinutes += minutes
		}
		if !at.Before(week) {
			stats.ThisWeekSessions++
			stats.ThisWeekFocusTimeMinutes += minutes
		}
	}
	stats.CompletionRate = CompletionRate(stats.CompletedSessions, stats.TotalSessions)
	return stats
}

func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns local midnight of the most recent weekStart day on or
// before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}
