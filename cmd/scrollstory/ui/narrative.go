package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Section is one narrative step.
type Section struct {
	Title string
	Text  string
	// MinHeight is the minimum number of lines the section occupies.
	MinHeight int
}

// Narrative renders the steps of a story as one scrollable document. Each
// step is rendered twice: in full for the current step and faint for the
// rest.
type Narrative struct {
	sections []Section
	style    string
	styles   Styles

	width   int
	full    [][]string
	faint   [][]string
	heights []int
}

// NewNarrative returns an unrendered narrative. style is a glamour standard
// style name.
func NewNarrative(sections []Section, style string, styles Styles) *Narrative {
	return &Narrative{sections: sections, style: style, styles: styles}
}

// Len returns the number of sections.
func (n *Narrative) Len() int { return len(n.sections) }

// Render lays the sections out at width. Every section is at least
// minHeight lines tall.
func (n *Narrative) Render(width, minHeight int) error {
	if width < 8 {
		width = 8
	}
	full, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(n.style),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	plain, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	n.width = width
	n.full = make([][]string, len(n.sections))
	n.faint = make([][]string, len(n.sections))
	n.heights = make([]int, len(n.sections))
	for i, s := range n.sections {
		md := s.Text
		if s.Title != "" {
			md = "## " + s.Title + "\n\n" + md
		}
		out, err := full.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render step %d: %w", i, err)
		}
		dim, err := plain.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render step %d: %w", i, err)
		}

		lines := splitLines(out)
		dimLines := splitLines(dim)
		h := max(len(lines), len(dimLines), s.MinHeight, minHeight)
		n.full[i] = pad(lines, h)
		n.faint[i] = pad(dimLines, h)
		for j, l := range n.faint[i] {
			n.faint[i][j] = n.styles.FaintStep.Render(l)
		}
		n.heights[i] = h
	}
	return nil
}

// Heights returns the line height of every section.
func (n *Narrative) Heights() []float64 {
	out := make([]float64, len(n.heights))
	for i, h := range n.heights {
		out[i] = float64(h)
	}
	return out
}

// Content joins every section. Sections whose opacity at step is below 1 are
// faint. tail blank lines let the last section reach the trigger line.
func (n *Narrative) Content(step int, opacity func(i, step int) float64, tail int) string {
	var lines []string
	for i := range n.full {
		if opacity(i, step) >= 1 {
			lines = append(lines, n.full[i]...)
		} else {
			lines = append(lines, n.faint[i]...)
		}
	}
	for i := 0; i < tail; i++ {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func pad(lines []string, h int) []string {
	out := make([]string, h)
	copy(out, lines)
	return out
}
