package scene

// Margin is the inset between a container and its drawable area.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Surface is a materialized region: drawable size plus a mount point.
type Surface struct {
	Region string

	// Width and Height exclude Margin and are never negative.
	Width  float64
	Height float64
	Margin Margin

	// ViewportHeight bounds charts that must fit on screen without scrolling.
	ViewportHeight float64

	Root *Node
}

// OuterWidth is the container width including margins.
func (s *Surface) OuterWidth() float64 {
	return s.Width + s.Margin.Left + s.Margin.Right
}

// OuterHeight is the container height including margins.
func (s *Surface) OuterHeight() float64 {
	return s.Height + s.Margin.Top + s.Margin.Bottom
}

// LocalHeight is the outer height capped to the viewport.
func (s *Surface) LocalHeight() float64 {
	h := s.OuterHeight()
	if s.ViewportHeight > 0 && s.ViewportHeight < h {
		return s.ViewportHeight
	}
	return h
}
