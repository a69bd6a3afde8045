package racingbars

import (
	"errors"
	"fmt"
	"math"
	"time"

	"scrollstory/internal/chart"
)

// ReentryPolicy decides what Animate does when marks from a previous run
// still exist.
type ReentryPolicy string

const (
	// ReentryRebuild clears the previous run, then animates again.
	ReentryRebuild ReentryPolicy = "rebuild"
	// ReentryReject refuses with ErrAnimationReentry.
	ReentryReject ReentryPolicy = "reject"
)

// DeactivatePolicy decides what happens to a running race when the chart is
// hidden.
type DeactivatePolicy string

const (
	DeactivateFastForward DeactivatePolicy = "fast-forward"
	DeactivateAbort       DeactivatePolicy = "abort"
	DeactivateContinue    DeactivatePolicy = "continue"
)

// Stage is one clamped growth phase.
type Stage struct {
	Threshold float64
	Duration  time.Duration
}

// Settings are the decoded chart options.
type Settings struct {
	NameField     string
	YearField     string
	ValueField    string
	CategoryField string

	// DomainMax is the upper end of the x domain; 0 means the data maximum.
	DomainMax float64

	Stages          []Stage
	RecolorDelay    time.Duration
	RecolorDuration time.Duration
	AxisDuration    time.Duration
	LineDelay       time.Duration
	LineDuration    time.Duration
	LineWidth       float64

	// ReferenceCategories name the two categories that get their own mean
	// line. Empty means the two most frequent.
	ReferenceCategories []string
	Colors              map[string]string
	OtherColor          string
	Legend              []string
	Highlight           string

	TooltipName     string
	TooltipValue    string
	TooltipUnit     string
	TooltipCategory string

	Reentry      ReentryPolicy
	OnDeactivate DeactivatePolicy
}

// Defaults reproduce the presidential speech-length race.
func Defaults() Settings {
	var stages []Stage
	for t := 2000.0; t <= 18000; t += 2000 {
		stages = append(stages, Stage{Threshold: t, Duration: time.Second})
	}
	stages = append(stages, Stage{Threshold: math.Inf(1), Duration: time.Second})
	return Settings{
		NameField:       "name",
		YearField:       "year",
		ValueField:      "word_count",
		CategoryField:   "party",
		DomainMax:       20000,
		Stages:          stages,
		RecolorDelay:    1200 * time.Millisecond,
		RecolorDuration: 1200 * time.Millisecond,
		AxisDuration:    1200 * time.Millisecond,
		LineDelay:       time.Second,
		LineDuration:    1200 * time.Millisecond,
		LineWidth:       25,
		Colors: map[string]string{
			"Republican": "#FF8B8B",
			"Democratic": "#83A2FF",
		},
		OtherColor:      "#FFD28F",
		Legend:          []string{"Republican", "Democratic", "Other"},
		TooltipName:     "President",
		TooltipValue:    "Average Speech Length",
		TooltipUnit:     "words",
		TooltipCategory: "Party",
		Reentry:         ReentryRebuild,
		OnDeactivate:    DeactivateFastForward,
	}
}

// ParseSettings overlays opts on Defaults.
func ParseSettings(opts chart.Options) (Settings, error) {
	s := Defaults()
	s.NameField = opts.String("name_field", s.NameField)
	s.YearField = opts.String("year_field", s.YearField)
	s.ValueField = opts.String("value_field", s.ValueField)
	s.CategoryField = opts.String("category_field", s.CategoryField)
	s.OtherColor = opts.String("other_color", s.OtherColor)
	s.Highlight = opts.String("highlight", s.Highlight)
	s.TooltipName = opts.String("tooltip_name", s.TooltipName)
	s.TooltipValue = opts.String("tooltip_value", s.TooltipValue)
	s.TooltipUnit = opts.String("tooltip_unit", s.TooltipUnit)
	s.TooltipCategory = opts.String("tooltip_category", s.TooltipCategory)

	var err error
	if opts.String("domain_max", "") == "auto" {
		s.DomainMax = 0
	} else if s.DomainMax, err = opts.Float("domain_max", s.DomainMax); err != nil {
		return s, err
	}
	if s.DomainMax < 0 {
		return s, fmt.Errorf("domain_max must not be negative, got %v", s.DomainMax)
	}

	stageDur, err := opts.Duration("stage_duration", time.Second)
	if err != nil {
		return s, err
	}
	thresholds, err := opts.Floats("thresholds")
	if err != nil {
		return s, err
	}
	if thresholds == nil {
		for _, st := range s.Stages {
			thresholds = append(thresholds, st.Threshold)
		}
	}
	if s.Stages, err = BuildStages(thresholds, stageDur); err != nil {
		return s, err
	}

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"recolor_delay", &s.RecolorDelay},
		{"recolor_duration", &s.RecolorDuration},
		{"axis_duration", &s.AxisDuration},
		{"line_delay", &s.LineDelay},
		{"line_duration", &s.LineDuration},
	} {
		if *d.dst, err = opts.Duration(d.key, *d.dst); err != nil {
			return s, err
		}
	}
	if s.LineWidth, err = opts.Float("line_width", s.LineWidth); err != nil {
		return s, err
	}

	if refs := opts.Strings("reference_categories"); refs != nil {
		if len(refs) != 2 {
			return s, fmt.Errorf("reference_categories wants exactly two entries, got %d", len(refs))
		}
		s.ReferenceCategories = refs
	}
	if legend := opts.Strings("legend"); legend != nil {
		s.Legend = legend
	}
	for k, v := range opts.StringMap("colors") {
		s.Colors[k] = v
	}

	switch p := ReentryPolicy(opts.String("reentry", string(s.Reentry))); p {
	case ReentryRebuild, ReentryReject:
		s.Reentry = p
	default:
		return s, fmt.Errorf("unknown reentry policy %q", p)
	}
	switch p := DeactivatePolicy(opts.String("on_deactivate", string(s.OnDeactivate))); p {
	case DeactivateFastForward, DeactivateAbort, DeactivateContinue:
		s.OnDeactivate = p
	default:
		return s, fmt.Errorf("unknown on_deactivate policy %q", p)
	}
	return s, nil
}

// BuildStages validates thresholds and appends the unclamped terminal stage
// when the list does not already end at +Inf.
func BuildStages(thresholds []float64, d time.Duration) ([]Stage, error) {
	if d <= 0 {
		return nil, errors.New("stage duration must be positive")
	}
	stages := make([]Stage, 0, len(thresholds)+1)
	for i, t := range thresholds {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("threshold %d is NaN", i)
		}
		if i > 0 && t <= thresholds[i-1] {
			return nil, fmt.Errorf("thresholds must be strictly increasing: %v follows %v", t, thresholds[i-1])
		}
		stages = append(stages, Stage{Threshold: t, Duration: d})
	}
	if len(stages) == 0 || !math.IsInf(stages[len(stages)-1].Threshold, 1) {
		stages = append(stages, Stage{Threshold: math.Inf(1), Duration: d})
	}
	return stages, nil
}

// ColorFor returns the recolor target for a category.
func (s Settings) ColorFor(category string) string {
	if c, ok := s.Colors[category]; ok {
		return c
	}
	return s.OtherColor
}

// growth is the total length of the clamped growth sequence.
func (s Settings) growth() time.Duration {
	var total time.Duration
	for _, st := range s.Stages {
		total += st.Duration
	}
	return total
}
