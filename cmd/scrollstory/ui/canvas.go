package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scrollstory/internal/chart/scale"
	"scrollstory/internal/scene"
)

const (
	runeSolid = '█'
	runeFaint = '░'
	runeHLine = '─'
	runeVLine = '│'
	runeDot   = '·'
)

type cell struct {
	r     rune
	color string
}

// Canvas rasterizes a surface's visible marks into terminal cells.
type Canvas struct {
	cols, rows int
	cells      []cell
	sx, sy     float64
}

// NewCanvas returns a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: max(cols, 0), rows: max(rows, 0)}
	c.cells = make([]cell, c.cols*c.rows)
	c.Clear()
	return c
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

// Draw maps the surface's outer box onto the canvas and paints its visible
// marks in document order.
func (c *Canvas) Draw(s *scene.Surface) {
	if s == nil || s.Root == nil || !s.Root.Visible() || c.cols == 0 || c.rows == 0 {
		return
	}
	w, h := s.OuterWidth(), s.OuterHeight()
	if w <= 0 || h <= 0 {
		return
	}
	c.sx, c.sy = float64(c.cols)/w, float64(c.rows)/h
	c.draw(s.Root, 0, 0)
}

func (c *Canvas) draw(n *scene.Node, ox, oy float64) {
	if n.HasClass(scene.ClassDeactivated) || n.HasClass(scene.ClassHidden) {
		return
	}
	switch n.Kind {
	case scene.KindGroup:
		ox += n.TranslateX
		oy += n.TranslateY
		for _, child := range n.Children() {
			c.draw(child, ox, oy)
		}
	case scene.KindRect:
		c.rect(n, ox, oy)
	case scene.KindLine:
		c.line(n, ox, oy)
	case scene.KindText:
		c.text(n, ox, oy)
	}
}

func (c *Canvas) rect(n *scene.Node, ox, oy float64) {
	if n.Fill == "" || n.Fill == "none" || n.Opacity <= 0.05 || n.Width <= 0 || n.Height <= 0 {
		return
	}
	r := runeSolid
	if n.Opacity < 0.5 {
		r = runeFaint
	}
	x0, x1 := c.span((ox+n.X)*c.sx, (ox+n.X+n.Width)*c.sx)
	y0, y1 := c.span((oy+n.Y)*c.sy, (oy+n.Y+n.Height)*c.sy)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			c.set(col, row, r, n.Fill)
		}
	}
}

func (c *Canvas) line(n *scene.Node, ox, oy float64) {
	if n.Opacity <= 0.05 || n.Stroke == "" {
		return
	}
	x1, y1 := (ox+n.X)*c.sx, (oy+n.Y)*c.sy
	x2, y2 := (ox+n.X2)*c.sx, (oy+n.Y2)*c.sy
	dx, dy := x2-x1, y2-y1
	r := runeDot
	switch {
	case math.Abs(dy) < 0.5:
		r = runeHLine
	case math.Abs(dx) < 0.5:
		r = runeVLine
	}
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := int(math.Floor(x1 + dx*t))
		row := int(math.Floor(y1 + dy*t))
		if col == c.cols && r == runeVLine {
			col--
		}
		c.set(col, row, r, n.Stroke)
	}
}

func (c *Canvas) text(n *scene.Node, ox, oy float64) {
	if n.Text == "" || n.Opacity <= 0.05 {
		return
	}
	runes := []rune(n.Text)
	col := int(math.Round((ox + n.X) * c.sx))
	switch n.Anchor {
	case "end":
		col -= len(runes)
	case "middle":
		col -= len(runes) / 2
	}
	row := int(math.Floor((oy + n.Y) * c.sy))
	if row == c.rows {
		row--
	}
	for i, r := range runes {
		c.set(col+i, row, r, n.Fill)
	}
}

// span converts a pixel interval scaled to cells into a half-open cell
// range covering at least one cell.
func (c *Canvas) span(a, b float64) (int, int) {
	lo := int(math.Floor(a))
	hi := int(math.Ceil(b))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func (c *Canvas) set(col, row int, r rune, color string) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = cell{r: r, color: color}
}

// Rune returns the character at (col, row).
func (c *Canvas) Rune(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	return c.cells[row*c.cols+col].r
}

// Color returns the mark color at (col, row), empty for blank cells.
func (c *Canvas) Color(col, row int) string {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return ""
	}
	return c.cells[row*c.cols+col].color
}

// String returns the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.cells[row*c.cols+col].r)
		}
	}
	return b.String()
}

// Render returns the canvas with each run of same-colored cells styled.
func (c *Canvas) Render() string {
	styles := make(map[string]lipgloss.Style)
	style := func(color string) lipgloss.Style {
		if s, ok := styles[color]; ok {
			return s
		}
		s := lipgloss.NewStyle()
		if col, ok := scale.ParseColor(color); ok {
			s = s.Foreground(lipgloss.Color(col.Hex()))
		}
		styles[color] = s
		return s
	}

	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := c.cells[row*c.cols : (row+1)*c.cols]
		for start := 0; start < len(line); {
			end := start + 1
			for end < len(line) && line[end].color == line[start].color {
				end++
			}
			var run strings.Builder
			for _, cl := range line[start:end] {
				run.WriteRune(cl.r)
			}
			if line[start].color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(style(line[start].color).Render(run.String()))
			}
			start = end
		}
	}
	return b.String()
}

// CellToSurface maps the center of canvas cell (col, row) to the surface's
// region coordinates.
func CellToSurface(s *scene.Surface, cols, rows, col, row int) (x, y float64) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	x = (float64(col) + 0.5) * s.OuterWidth() / float64(cols)
	y = (float64(row) + 0.5) * s.OuterHeight() / float64(rows)
	return x, y
}
