package markdown_test

import (
	"strings"
	"testing"

	"pomodoro/internal/platform/markdown"
)

func TestRenderThenParseKeepsMetaAndBody(t *testing.T) {
	t.Parallel()
	note := markdown.Note{Meta: map[string]any{"date": "2026-03-02", "sessions": 3}, Body: "# Monday\n"}
	rendered, err := note.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	parsed, err := markdown.ParseNote(rendered)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Meta["date"] != "2026-03-02" || parsed.Meta["sessions"] != 3 {
		t.Fatalf("unexpected meta: %#v", parsed.Meta)
	}
	if strings.TrimSpace(parsed.Body) != "# Monday" {
		t.Fatalf("unexpected body: %q", parsed.Body)
	}
}

func TestParseWithoutFrontmatterAndUnclosedFence(t *testing.T) {
	t.Parallel()
	plain, err := markdown.ParseNote("just text\n")
	if err != nil || plain.Body != "just text\n" || len(plain.Meta) != 0 {
		t.Fatalf("unexpected plain parse: %#v err=%v", plain, err)
	}
	if _, err := markdown.ParseNote("---\ndate: x\nno closing"); err == nil {
		t.Fatalf("expected missing separator error")
	}
}

func TestReplaceBlockPreservesSurroundingText(t *testing.T) {
	t.Parallel()
	note := markdown.Note{Body: "my notes\n"}
	note = note.ReplaceBlock("sessions", "- one")
	if !strings.HasPrefix(note.Body, "my notes\n\n<!-- sessions:begin -->\n- one\n<!-- sessions:end -->") {
		t.Fatalf("unexpected appended block: %q", note.Body)
	}
	note.Body += "\nafterword\n"
	note = note.ReplaceBlock("sessions", "- two\n")
	if strings.Contains(note.Body, "- one") || !strings.Contains(note.Body, "- two") {
		t.Fatalf("block was not replaced: %q", note.Body)
	}
	if !strings.HasPrefix(note.Body, "my notes") || !strings.HasSuffix(note.Body, "afterword\n") {
		t.Fatalf("text outside block changed: %q", note.Body)
	}
}

func TestParseEmptyAndNullFrontmatter(t *testing.T) {
	t.Parallel()
	for name, content := range map[string]string{
		"empty": "---\n---\nmy notes\n",
		"null":  "---\n~\n---\nmy notes\n",
	} {
		note, err := markdown.ParseNote(content)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if note.Meta == nil || len(note.Meta) != 0 {
			t.Fatalf("%s: expected empty writable meta, got %#v", name, note.Meta)
		}
		note.Meta["date"] = "2026-03-04"
		if note.Body != "my notes\n" {
			t.Fatalf("%s: unexpected body %q", name, note.Body)
		}
	}
}
