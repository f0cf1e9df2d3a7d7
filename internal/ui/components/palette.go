package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomodoro/internal/ui/theme"
)

// PaletteSubmitMsg carries the confirmed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

const maxHints = 6

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle     = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

// Palette is a one-line command prompt. Hints are command templates such as
// "focus [minutes]"; up/down picks one and tab copies its verb into the
// prompt.
type Palette struct {
	input    textinput.Model
	hints    []string
	selected int
	visible  bool
	width    int
}

func NewPalette(hints []string) Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "focus 50, short, pause…"
	ti.CharLimit = 64
	return Palette{input: ti, hints: hints}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) SetWidth(w int) { p.width = w }

// Open clears the prompt and returns the cursor blink command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.selected = 0
	p.input.Reset()
	return p.input.Focus()
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		matching := p.Matching()
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "up":
			if p.selected > 0 {
				p.selected--
			}
			return p, nil
		case "down":
			if p.selected < len(matching)-1 {
				p.selected++
			}
			return p, nil
		case "tab":
			if p.selected < len(matching) {
				p.input.SetValue(verb(matching[p.selected]) + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.selected = 0
	}
	return p, cmd
}

// Matching returns up to maxHints hints whose verb starts with the first
// word typed so far.
func (p Palette) Matching() []string {
	typed := strings.Fields(strings.ToLower(p.input.Value()))
	var matching []string
	for _, hint := range p.hints {
		if len(typed) > 0 && !strings.HasPrefix(verb(hint), typed[0]) {
			continue
		}
		matching = append(matching, hint)
		if len(matching) == maxHints {
			break
		}
	}
	return matching
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	lines := []string{theme.Title.Render("Command"), p.input.View()}
	if matching := p.Matching(); len(matching) > 0 {
		lines = append(lines, "")
		for i, hint := range matching {
			if i == p.selected {
				lines = append(lines, selectedStyle.Render("› "+hint))
			} else {
				lines = append(lines, hintStyle.Render("  "+hint))
			}
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(strings.Join(lines, "\n"))
}

func verb(hint string) string {
	if i := strings.IndexByte(hint, ' '); i >= 0 {
		return hint[:i]
	}
	return hint
}
