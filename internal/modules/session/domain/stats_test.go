package domain_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pomodoro/internal/modules/session/domain"
)

func focus(id string, at time.Time, minutes int, completed bool, seconds int) domain.Record {
	return domain.Record{ID: id, SessionType: domain.SessionFocus, DurationMinutes: minutes, CompletedAt: at, WasCompleted: completed, FocusTimeSeconds: seconds}
}

func TestCalculateStatsPartitionsTodayWeekAndTotals(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("test", 2*60*60)
	// Wednesday
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, loc)
	records := []domain.Record{
		focus("today-done", time.Date(2026, 3, 4, 9, 0, 0, 0, loc), 25, true, 1500),
		focus("today-abandoned", time.Date(2026, 3, 4, 10, 0, 0, 0, loc), 25, false, 610),
		focus("sunday", time.Date(2026, 3, 1, 0, 30, 0, 0, loc), 50, true, 3000),
		focus("saturday", time.Date(2026, 2, 28, 23, 59, 0, 0, loc), 25, true, 1500),
		{ID: "break", SessionType: domain.SessionShortBreak, DurationMinutes: 5, CompletedAt: time.Date(2026, 3, 4, 9, 30, 0, 0, loc), WasCompleted: true, FocusTimeSeconds: 300},
	}

	got := domain.CalculateStats(records, now, time.Sunday)
	want := domain.Stats{
		TotalSessions:            5,
		CompletedSessions:        4,
		TotalFocusTimeMinutes:    25 + 10 + 50 + 25,
		TodaySessions:            2,
		TodayFocusTimeMinutes:    35,
		ThisWeekSessions:         3,
		ThisWeekFocusTimeMinutes: 85,
		CompletionRate:           80,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateStatsHonoursWeekStart(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	records := []domain.Record{focus("sunday", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 25, true, 0)}

	if got := domain.CalculateStats(records, now, time.Sunday).ThisWeekSessions; got != 1 {
		t.Fatalf("sunday-start week should include sunday, got %d", got)
	}
	if got := domain.CalculateStats(records, now, time.Monday).ThisWeekSessions; got != 0 {
		t.Fatalf("monday-start week should exclude previous sunday, got %d", got)
	}
}

func TestCompletionRate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := domain.CompletionRate(tc.completed, tc.total); got != tc.want {
			t.Fatalf("CompletionRate(%d,%d)=%d want %d", tc.completed, tc.total, got, tc.want)
		}
	}
	if got := domain.CalculateStats(nil, time.Now(), time.Sunday); got != (domain.Stats{}) {
		t.Fatalf("empty collection should yield zero stats, got %+v", got)
	}
}

func TestDerivedViewsSplitHoursAndMinutes(t *testing.T) {
	t.Parallel()
	stats := domain.Stats{TotalSessions: 9, CompletedSessions: 7, TotalFocusTimeMinutes: 135, TodaySessions: 2, TodayFocusTimeMinutes: 50, CompletionRate: 78}
	if diff := cmp.Diff(domain.TodayView{Sessions: 2, FocusTime: 50, Hours: 0, Minutes: 50}, stats.Today()); diff != "" {
		t.Fatalf("today view (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(domain.TotalView{Sessions: 9, Completed: 7, FocusTime: 135, Hours: 2, Minutes: 15, CompletionRate: 78}, stats.Total()); diff != "" {
		t.Fatalf("total view (-want +got):\n%s", diff)
	}
}
