package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	separator    = "---\n"
	closingFence = "\n---\n"
)

// Note is a markdown document with an optional YAML frontmatter header.
type Note struct {
	Meta map[string]any
	Body string
}

func ParseNote(content string) (Note, error) {
	if !strings.HasPrefix(content, separator) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, separator)
	var header, body string
	if strings.HasPrefix(rest, separator) {
		body = rest[len(separator):]
	} else {
		idx := strings.Index(rest, closingFence)
		if idx < 0 {
			return Note{}, fmt.Errorf("invalid frontmatter: missing closing separator")
		}
		header, body = rest[:idx], rest[idx+len(closingFence):]
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return Note{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	// a null document ("~") leaves the map nil
	if meta == nil {
		meta = map[string]any{}
	}
	return Note{Meta: meta, Body: body}, nil
}

func (n Note) Render() (string, error) {
	meta := n.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(n.Body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}

// ReplaceBlock swaps the text between the begin/end markers of name for
// generated, appending a fresh block when the markers are absent. Text
// outside the block is left alone.
func (n Note) ReplaceBlock(name, generated string) Note {
	begin := "<!-- " + name + ":begin -->"
	end := "<!-- " + name + ":end -->"
	block := begin + "\n" + strings.TrimRight(generated, "\n") + "\n" + end

	start := strings.Index(n.Body, begin)
	stop := strings.Index(n.Body, end)
	if start >= 0 && stop > start {
		n.Body = n.Body[:start] + block + n.Body[stop+len(end):]
		return n
	}
	switch {
	case strings.TrimSpace(n.Body) == "":
		n.Body = block + "\n"
	case strings.HasSuffix(n.Body, "\n"):
		n.Body = n.Body + "\n" + block + "\n"
	default:
		n.Body = n.Body + "\n\n" + block + "\n"
	}
	return n
}
