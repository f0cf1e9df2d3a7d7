package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pomodoro/internal/modules/session/domain"
	sessionout "pomodoro/internal/modules/session/port/out"
	"pomodoro/internal/platform/markdown"
)

const journalBlock = "sessions"

// MarkdownJournal writes one note per day. Only the frontmatter counters and
// the managed sessions block are rewritten on re-export.
type MarkdownJournal struct {
	dir string
	loc *time.Location
}

func NewMarkdownJournal(dir string, loc *time.Location) sessionout.JournalWriter {
	if loc == nil {
		loc = time.Local
	}
	return &MarkdownJournal{dir: dir, loc: loc}
}

func (j *MarkdownJournal) WriteDay(_ context.Context, group domain.DateGroup) (string, error) {
	day := group.Day.In(j.loc)
	path := filepath.Join(j.dir, day.Format("2006"), day.Format("01"), day.Format("02")+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}

	note := markdown.Note{Meta: map[string]any{}, Body: "\n# " + group.Label + "\n"}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		note, err = markdown.ParseNote(string(existing))
		if err != nil {
			return "", fmt.Errorf("parse journal note %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read journal note: %w", err)
	}

	focusMinutes := 0
	for _, record := range group.Sessions {
		if record.SessionType == domain.SessionFocus {
			focusMinutes += record.FocusMinutes()
		}
	}
	note.Meta["schema_version"] = domain.SchemaVersion
	note.Meta["date"] = day.Format(time.DateOnly)
	note.Meta["sessions"] = len(group.Sessions)
	note.Meta["focus_minutes"] = focusMinutes
	note = note.ReplaceBlock(journalBlock, renderSessionLines(group.Sessions, j.loc))

	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func renderSessionLines(records []domain.Record, loc *time.Location) string {
	lines := make([]string, 0, len(records))
	for _, record := range records {
		status := "completed"
		if !record.WasCompleted {
			status = "stopped"
		}
		lines = append(lines, fmt.Sprintf("- %s %s %s (%s, %s focus)",
			domain.FormatTime(record.CompletedAt, loc),
			record.SessionType.DisplayName(),
			domain.FormatDuration(record.DurationMinutes),
			status,
			domain.FormatDuration(record.FocusMinutes()),
		))
	}
	return strings.Join(lines, "\n")
}
