package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pomodoro/internal/modules/session/dto"
	"pomodoro/internal/ui/components"
	"pomodoro/internal/ui/theme"
	historyview "pomodoro/internal/ui/views/history"
	statsview "pomodoro/internal/ui/views/stats"
	timerview "pomodoro/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	Complete(ctx context.Context, input sessiondto.CompleteInput) sessiondto.CompleteOutput
	LoadSessions(ctx context.Context) sessiondto.SessionsOutput
	LoadStats(ctx context.Context) sessiondto.LoadStatsOutput
	Snapshot() sessiondto.StateOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabHistory
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "History", "Stats"}

// ─── messages ────────────────────────────────────────────────────────────────

// StateChangedMsg carries a fresh store snapshot pushed from outside the
// program, e.g. after another process wrote the session log.
type StateChangedMsg struct{ State sessiondto.StateOutput }

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type sessionCompletedMsg struct {
	out sessiondto.CompleteOutput
}

type reloadedMsg struct {
	sessions sessiondto.SessionsOutput
	stats    sessiondto.LoadStatsOutput
}

type completion struct {
	wasCompleted bool
	focusSeconds int
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
	Focus      key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
	Pause      key.Binding
	Abandon    key.Binding
	Complete   key.Binding
	Reload     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Focus:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		ShortBreak: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "short break")),
		LongBreak:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "long break")),
		Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Abandon:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "abandon")),
		Complete:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "retry save")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.ShortBreak, k.LongBreak},
		{k.Pause, k.Abandon, k.Complete, k.Reload},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// hints must stay in sync with the switch in executePalette.
var paletteHints = []string{
	"focus [minutes]",
	"short [minutes]",
	"long [minutes]",
	"pause",
	"abandon",
	"complete",
	"reload",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the countdown,
// the help overlay and the command palette; persistence goes through the
// session port and always runs inside a tea.Cmd.
type Model struct {
	session sessionPort

	timer   timerview.Model
	history historyview.Model
	stats   statsview.Model

	state     sessiondto.StateOutput
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	spinner   spinner.Model
	status    string
	failed    bool
	// lastCompletion is the most recent completion request, replayed when
	// its save failed.
	lastCompletion *completion
	width          int
	height         int
}

func NewModel(session sessionPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		session:   session,
		timer:     timerview.New(time.Now),
		history:   historyview.New(),
		stats:     statsview.New(),
		activeTab: tabTimer,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(paletteHints),
		spinner:   sp,
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reloadCmd(), m.spinner.Tick)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts key input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case StateChangedMsg:
		m.applyState(msg.State)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case timerview.TickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timerview.FinishedMsg:
		m.setStatus(msg.Session.TypeName+" finished", false)
		return m, m.complete(true, 0)

	case sessionStartedMsg:
		if msg.err != nil {
			m.setStatus("start failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.applyState(m.session.Snapshot())
		m.setStatus(msg.out.Session.TypeName+" started", false)
		if msg.out.Replaced != "" {
			m.status += " (previous session discarded)"
		}
		m.activeTab = tabTimer
		return m, m.timer.Start(msg.out.Session)

	case sessionCompletedMsg:
		m.applyState(m.session.Snapshot())
		switch {
		case msg.out.Completed && msg.out.Err != nil:
			m.setStatus(fmt.Sprintf("saved to %s store; reload: %v", msg.out.Backend, msg.out.Err), true)
		case msg.out.Completed:
			m.setStatus(fmt.Sprintf("%s saved to %s store", msg.out.Session.TypeName, msg.out.Backend), false)
		case msg.out.Err != nil:
			m.setStatus("save failed: "+msg.out.Err.Error()+" (c: retry, x: save as stopped)", true)
		default:
			m.setStatus("no session in progress", false)
		}
		if msg.out.Completed {
			m.lastCompletion = nil
		}
		return m, nil

	case reloadedMsg:
		m.applyState(m.session.Snapshot())
		switch {
		case msg.sessions.Err != nil:
			m.setStatus("sessions: "+msg.sessions.Err.Error(), true)
		case msg.stats.Err != nil:
			m.setStatus("stats: "+msg.stats.Err.Error(), true)
		default:
			m.setStatus(fmt.Sprintf("%d sessions (%s store)", len(msg.sessions.Sessions), msg.sessions.Backend), false)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.setStatus("ready", false)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Focus):
			return m, m.startCmd("focus", 0)
		case key.Matches(msg, m.keys.ShortBreak):
			return m, m.startCmd("short_break", 0)
		case key.Matches(msg, m.keys.LongBreak):
			return m, m.startCmd("long_break", 0)
		case key.Matches(msg, m.keys.Pause):
			return m, m.togglePause()
		case key.Matches(msg, m.keys.Abandon):
			return m.abandon()
		case key.Matches(msg, m.keys.Complete):
			return m.retry()
		case key.Matches(msg, m.keys.Reload):
			m.setStatus("reloading…", false)
			return m, m.reloadCmd()
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabHistory:
		m.history, tabCmd = m.history.Update(msg)
	case tabStats:
		m.stats, tabCmd = m.stats.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// applyState ignores snapshots older than the one already shown.
func (m *Model) applyState(state sessiondto.StateOutput) {
	if state.Version < m.state.Version {
		return
	}
	m.state = state
	m.history.SetGroups(state.Groups)
	m.stats.SetStats(state.Stats)
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m *Model) togglePause() tea.Cmd {
	if !m.timer.Running() {
		m.setStatus("no session in progress", false)
		return nil
	}
	cmd := m.timer.TogglePause()
	if m.timer.Paused() {
		m.setStatus("paused", false)
	} else {
		m.setStatus("resumed", false)
	}
	return cmd
}

// unsaved reports a session that has left the countdown but is still
// waiting to be saved.
func (m Model) unsaved() bool {
	return !m.timer.Running() && m.state.HasCurrent
}

func (m Model) abandon() (tea.Model, tea.Cmd) {
	if m.timer.Running() {
		elapsed := m.timer.Stop()
		m.setStatus("abandoning…", false)
		return m, m.complete(false, int(elapsed/time.Second))
	}
	if !m.unsaved() {
		m.setStatus("no session in progress", false)
		return m, nil
	}
	seconds := 0
	if last := m.lastCompletion; last != nil {
		seconds = last.focusSeconds
		if last.wasCompleted {
			seconds = m.state.Current.DurationMinutes * 60
		}
	}
	m.setStatus("saving as stopped…", false)
	return m, m.complete(false, seconds)
}

// retry repeats the last completion of a session whose save failed. A
// session with no recorded attempt is saved as finished.
func (m Model) retry() (tea.Model, tea.Cmd) {
	if !m.unsaved() {
		m.setStatus("nothing waiting to be saved", false)
		return m, nil
	}
	last := completion{wasCompleted: true}
	if m.lastCompletion != nil {
		last = *m.lastCompletion
	}
	m.setStatus("retrying save…", false)
	return m, m.complete(last.wasCompleted, last.focusSeconds)
}

func (m *Model) complete(wasCompleted bool, focusSeconds int) tea.Cmd {
	m.lastCompletion = &completion{wasCompleted: wasCompleted, focusSeconds: focusSeconds}
	return m.completeCmd(wasCompleted, focusSeconds)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timer.View()
	case tabHistory:
		return m.history.View()
	case tabStats:
		return m.stats.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "pomodoro  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.failed {
		left = theme.Error.Render(left)
	}
	if m.state.Loading {
		left = m.spinner.View() + " " + left
	}
	switch {
	case m.timer.Running():
		current := m.timer.Session()
		left = theme.SessionStyle(current.Color).Render("● "+current.TypeName+" "+timerview.Clock(m.timer.Remaining())) + "  " + left
	case m.unsaved():
		current := m.state.Current
		left = theme.SessionStyle(current.Color).Render("● "+current.TypeName+" unsaved") + "  " + left
	}
	right := theme.Muted.Render(fmt.Sprintf("today %d  •  ?:help  :::palette  q:quit", m.state.Stats.Today.Sessions))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	minutes := 0
	if len(parts) >= 2 {
		if _, err := fmt.Sscanf(parts[1], "%d", &minutes); err != nil || minutes <= 0 {
			m.setStatus("minutes must be a positive number", true)
			return m, nil
		}
	}

	switch parts[0] {
	case "focus":
		return m, m.startCmd("focus", minutes)
	case "short":
		return m, m.startCmd("short_break", minutes)
	case "long":
		return m, m.startCmd("long_break", minutes)
	case "pause":
		cmd := m.togglePause()
		return m, cmd
	case "abandon":
		return m.abandon()
	case "complete", "retry":
		return m.retry()
	case "reload":
		m.setStatus("reloading…", false)
		return m, m.reloadCmd()
	default:
		m.setStatus("unknown command: "+parts[0], true)
	}
	return m, nil
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timer, _ = m.timer.Update(sz)
	m.history, _ = m.history.Update(sz)
	m.stats, _ = m.stats.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd(sessionType string, minutes int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), sessiondto.StartInput{SessionType: sessionType, DurationMinutes: minutes})
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) completeCmd(wasCompleted bool, focusSeconds int) tea.Cmd {
	return func() tea.Msg {
		input := sessiondto.CompleteInput{WasCompleted: wasCompleted}
		if focusSeconds > 0 {
			input.ActualFocusSeconds = &focusSeconds
		}
		return sessionCompletedMsg{out: m.session.Complete(context.Background(), input)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		sessions := m.session.LoadSessions(ctx)
		stats := m.session.LoadStats(ctx)
		return reloadedMsg{sessions: sessions, stats: stats}
	}
}
