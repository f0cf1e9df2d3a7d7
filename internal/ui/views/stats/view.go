package stats

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pomodoro/internal/modules/session/dto"
	"pomodoro/internal/ui/theme"
)

type Model struct {
	stats  sessiondto.StatsOutput
	width  int
	height int
}

func New() Model { return Model{} }

func (m *Model) SetStats(stats sessiondto.StatsOutput) { m.stats = stats }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}
	return m, nil
}

func (m Model) View() string {
	s := m.stats
	today := card("Today",
		fmt.Sprintf("%d focus sessions", s.Today.Sessions),
		hoursMinutes(s.Today.Hours, s.Today.Minutes)+" focused",
	)
	week := card("This week",
		fmt.Sprintf("%d focus sessions", s.ThisWeekSessions),
		fmt.Sprintf("%dm focused", s.ThisWeekFocusTimeMinutes),
	)
	total := card("All time",
		fmt.Sprintf("%d sessions, %d completed", s.Total.Sessions, s.Total.Completed),
		hoursMinutes(s.Total.Hours, s.Total.Minutes)+" focused",
		fmt.Sprintf("%d%% completion rate", s.Total.CompletionRate),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, today, week, total)
}

func card(title string, lines ...string) string {
	body := theme.Title.Render(title)
	for _, line := range lines {
		body += "\n" + line
	}
	return theme.Pane.Width(28).MarginRight(1).Render(body)
}

func hoursMinutes(hours, minutes int) string {
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
