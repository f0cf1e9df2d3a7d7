package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pomodoro/internal/modules/session/dto"
	"pomodoro/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// TickMsg advances the countdown. seq discards ticks scheduled before a
// pause, stop or restart.
type TickMsg struct {
	At  time.Time
	seq int
}

// FinishedMsg is emitted once when the countdown reaches zero.
type FinishedMsg struct {
	Session sessiondto.SessionOutput
	Elapsed time.Duration
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	now      func() time.Time
	session  sessiondto.SessionOutput
	total    time.Duration
	elapsed  time.Duration
	lastTick time.Time
	running  bool
	paused   bool
	seq      int
	bar      progress.Model
	width    int
	height   int
}

func New(now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	bar := progress.New(progress.WithSolidFill(string(theme.Lavender)), progress.WithoutPercentage())
	return Model{now: now, bar: bar}
}

func (m Model) Running() bool { return m.running }
func (m Model) Paused() bool  { return m.paused }

func (m Model) Elapsed() time.Duration { return m.elapsed }

func (m Model) Remaining() time.Duration {
	if m.elapsed >= m.total {
		return 0
	}
	return m.total - m.elapsed
}

func (m Model) Session() sessiondto.SessionOutput { return m.session }

// Start resets the countdown for session and schedules the first tick.
func (m *Model) Start(session sessiondto.SessionOutput) tea.Cmd {
	m.session = session
	m.total = time.Duration(session.DurationMinutes) * time.Minute
	m.elapsed = 0
	m.lastTick = m.now()
	m.running = true
	m.paused = false
	m.seq++
	m.bar.FullColor = session.Color
	return m.tick()
}

// TogglePause freezes or resumes the countdown. Paused time is not counted
// as focus time.
func (m *Model) TogglePause() tea.Cmd {
	if !m.running {
		return nil
	}
	m.seq++
	if m.paused {
		m.paused = false
		m.lastTick = m.now()
		return m.tick()
	}
	m.advance(m.now())
	m.paused = true
	return nil
}

// Stop ends the countdown early and returns the focus time spent.
func (m *Model) Stop() time.Duration {
	if m.running && !m.paused {
		m.advance(m.now())
	}
	elapsed := m.elapsed
	m.running = false
	m.paused = false
	m.seq++
	return elapsed
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(m.width-8, 60))

	case TickMsg:
		if msg.seq != m.seq || !m.running || m.paused {
			return m, nil
		}
		m.advance(msg.At)
		if m.elapsed >= m.total {
			m.running = false
			m.seq++
			finished := FinishedMsg{Session: m.session, Elapsed: m.total}
			return m, func() tea.Msg { return finished }
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance(at time.Time) {
	if delta := at.Sub(m.lastTick); delta > 0 {
		m.elapsed += delta
	}
	m.lastTick = at
	if m.elapsed > m.total {
		m.elapsed = m.total
	}
}

func (m Model) tick() tea.Cmd {
	seq := m.seq
	return tea.Tick(time.Second, func(at time.Time) tea.Msg {
		return TickMsg{At: at, seq: seq}
	})
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder
	if !m.running {
		sb.WriteString(theme.Title.Render("Ready") + "\n\n")
		sb.WriteString(theme.Muted.Render("f: focus   b: short break   l: long break"))
		return m.frame(sb.String())
	}

	label := theme.SessionStyle(m.session.Color).Render(m.session.TypeName)
	if m.paused {
		label += theme.Muted.Render("  (paused)")
	}
	sb.WriteString(label + "\n\n")
	sb.WriteString(theme.Hot.Render(Clock(m.Remaining())) + "\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.elapsed) / float64(m.total)
	}
	sb.WriteString(m.bar.ViewAs(percent) + "\n\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s session  •  space: pause  x: abandon", m.session.Duration)))
	return m.frame(sb.String())
}

func (m Model) frame(body string) string {
	w := m.width
	if w < 20 {
		w = 60
	}
	pane := theme.PaneActive.Render(lipgloss.NewStyle().Width(min(w-6, 64)).Align(lipgloss.Center).Render(body))
	if m.height <= 0 {
		return pane
	}
	return lipgloss.Place(w, m.height, lipgloss.Center, lipgloss.Center, pane)
}

// Clock formats d as MM:SS, rounding partial seconds up.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
