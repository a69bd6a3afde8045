package scale

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"grey":      "#808080",
	"gray":      "#808080",
	"lightgrey": "#d3d3d3",
	"lightgray": "#d3d3d3",
	"pink":      "#ffc0cb",
	"red":       "#ff0000",
	"blue":      "#0000ff",
}

// ParseColor accepts #rgb, #rrggbb and a handful of CSS names.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := named[s]; ok {
		s = hex
	}
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// InterpolateColor blends a toward b in RGB space. Unparseable endpoints
// snap: the result is a before the midpoint and b after it.
func InterpolateColor(a, b string, t float64) string {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca, okA := ParseColor(a)
	cb, okB := ParseColor(b)
	if !okA || !okB {
		if t < 0.5 {
			return a
		}
		return b
	}
	return ca.BlendRgb(cb, t).Clamped().Hex()
}

// GnBu is the nine-class green-blue sequential scheme.
var GnBu = []string{
	"#f7fcf0", "#e0f3db", "#ccebc5", "#a8ddb5", "#7bccc4",
	"#4eb3d3", "#2b8cbe", "#0868ac", "#084081",
}

// Sequential maps a numeric domain onto a color ramp.
type Sequential struct {
	Min, Max float64
	stops    []colorful.Color
}

// NewSequential builds a ramp from hex stops. Invalid stops are skipped.
func NewSequential(min, max float64, stops []string) *Sequential {
	s := &Sequential{Min: min, Max: max}
	for _, h := range stops {
		if c, ok := ParseColor(h); ok {
			s.stops = append(s.stops, c)
		}
	}
	return s
}

// Map returns the color for v as #rrggbb.
func (s *Sequential) Map(v float64) string {
	if len(s.stops) == 0 {
		return "#000000"
	}
	t := 0.5
	if s.Max != s.Min {
		t = (v - s.Min) / (s.Max - s.Min)
	}
	t = clamp01(t)
	if len(s.stops) == 1 {
		return s.stops[0].Hex()
	}
	pos := t * float64(len(s.stops)-1)
	i := int(pos)
	if i >= len(s.stops)-1 {
		return s.stops[len(s.stops)-1].Hex()
	}
	return s.stops[i].BlendRgb(s.stops[i+1], pos-float64(i)).Clamped().Hex()
}

// Ordinal assigns range values to domain keys in order, cycling the range.
// Unknown keys are appended to the domain on first use.
type Ordinal struct {
	keys  map[string]int
	order []string
	rng   []string
}

// NewOrdinal returns an ordinal scale.
func NewOrdinal(domain, rng []string) *Ordinal {
	o := &Ordinal{keys: make(map[string]int), rng: rng}
	for _, d := range domain {
		o.add(d)
	}
	return o
}

func (o *Ordinal) add(k string) int {
	if i, ok := o.keys[k]; ok {
		return i
	}
	o.keys[k] = len(o.order)
	o.order = append(o.order, k)
	return o.keys[k]
}

// Map returns the range value for k.
func (o *Ordinal) Map(k string) string {
	if len(o.rng) == 0 {
		return ""
	}
	return o.rng[o.add(k)%len(o.rng)]
}

// Domain returns the keys seen so far in order.
func (o *Ordinal) Domain() []string {
	return append([]string(nil), o.order...)
}

// Category10 is the default categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
