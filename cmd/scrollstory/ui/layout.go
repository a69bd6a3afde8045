package ui

// Terminal cells are mapped to a fixed pixel size so region layouts and
// pointer positions stay in the same units the charts draw in.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Pane is a region's canvas in terminal cells. The title line sits on the
// row above Y.
type Pane struct {
	ID   string
	X, Y int
	Cols int
	Rows int
}

// Contains reports whether terminal cell (col, row) lies on the canvas.
func (p Pane) Contains(col, row int) bool {
	return col >= p.X && col < p.X+p.Cols && row >= p.Y && row < p.Y+p.Rows
}

// PixelWidth is the canvas width in pixels.
func (p Pane) PixelWidth() float64 { return float64(p.Cols * CellWidth) }

// PixelHeight is the canvas height in pixels.
func (p Pane) PixelHeight() float64 { return float64(p.Rows * CellHeight) }

// Layout splits a width x height terminal into the narrative column and one
// stacked pane per region. footer rows are reserved at the bottom.
func Layout(width, height, footer int, regionIDs []string) (narrativeWidth int, panes []Pane) {
	narrativeWidth = width * 2 / 5
	if narrativeWidth < 24 {
		narrativeWidth = min(24, width)
	}
	left := narrativeWidth + 1
	cols := width - left
	avail := height - footer
	if cols <= 0 || avail <= 0 || len(regionIDs) == 0 {
		return narrativeWidth, nil
	}

	per := avail / len(regionIDs)
	y := 0
	for _, id := range regionIDs {
		rows := per - 1
		if rows < 0 {
			rows = 0
		}
		panes = append(panes, Pane{ID: id, X: left, Y: y + 1, Cols: cols, Rows: rows})
		y += per
	}
	return narrativeWidth, panes
}
