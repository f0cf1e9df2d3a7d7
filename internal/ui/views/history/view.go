package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pomodoro/internal/modules/session/dto"
	"pomodoro/internal/ui/theme"
)

// Model renders the session log grouped by calendar day in a scrollable
// viewport.
type Model struct {
	groups   []sessiondto.DateGroupOutput
	viewport viewport.Model
	width    int
	height   int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(0, 1)
	return Model{viewport: vp}
}

func (m *Model) SetGroups(groups []sessiondto.DateGroupOutput) {
	m.groups = groups
	m.viewport.SetContent(Render(groups))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.viewport.Width = max(0, size.Width-4)
		m.viewport.Height = max(0, size.Height-4)
		m.viewport.SetContent(Render(m.groups))
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render("History")
	if len(m.groups) > 0 {
		header += theme.Muted.Render(fmt.Sprintf("  %d%% scrolled", int(m.viewport.ScrollPercent()*100)))
	}
	return theme.Pane.Render(header + "\n" + m.viewport.View())
}

// Render lays out groups newest day first, one line per session.
func Render(groups []sessiondto.DateGroupOutput) string {
	if len(groups) == 0 {
		return theme.Muted.Render("No sessions yet. Press f to start focusing.")
	}
	var sb strings.Builder
	for i, group := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(theme.Hot.Render(group.Date) + "\n")
		for _, s := range group.Sessions {
			mark := "✓"
			if !s.WasCompleted {
				mark = "✗"
			}
			line := fmt.Sprintf("  %s  %s  %-11s %6s", mark, s.Time, theme.SessionStyle(s.Color).Render(s.TypeName), s.Duration)
			if !s.WasCompleted && s.SessionType == "focus" {
				line += theme.Muted.Render(fmt.Sprintf("  (%dm focused)", s.FocusMinutes))
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}
