package racingbars

import (
	"fmt"
	"math"
	"sort"

	"scrollstory/internal/dataset"
)

// Frame is one racer.
type Frame struct {
	Name     string
	Year     float64
	Value    float64
	Category string
	// Order is the row's position in the source table.
	Order int
}

// ReadFrames extracts frames from t. Values must be finite and not negative.
func ReadFrames(t *dataset.Table, s Settings) ([]Frame, error) {
	for _, col := range []string{s.NameField, s.YearField, s.ValueField} {
		if !t.Has(col) {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	frames := make([]Frame, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		year, err := t.Float(r, s.YearField)
		if err != nil {
			return nil, err
		}
		v, err := t.Float(r, s.ValueField)
		if err != nil {
			return nil, err
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("row %d: %s must be a finite value >= 0, got %v", r, s.ValueField, v)
		}
		frames = append(frames, Frame{
			Name:     t.String(r, s.NameField),
			Year:     year,
			Value:    v,
			Category: t.String(r, s.CategoryField),
			Order:    r,
		})
	}
	return frames, nil
}

// SortByYear orders frames by year ascending; equal years keep input order.
func SortByYear(frames []Frame) []Frame {
	out := append([]Frame(nil), frames...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopCategories returns the n most frequent categories, ties broken by first
// appearance.
func TopCategories(frames []Frame, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, f := range frames {
		if f.Category == "" {
			continue
		}
		if counts[f.Category] == 0 {
			order = append(order, f.Category)
		}
		counts[f.Category]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}
