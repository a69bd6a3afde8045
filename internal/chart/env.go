package chart

import (
	"fmt"
	"strconv"
	"time"

	"scrollstory/internal/anim"
	"scrollstory/internal/dataset"
	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

// Env is everything a chart may touch. Charts never read global state; the
// current step is reached through CurrentStep.
type Env struct {
	Surface     *scene.Surface
	Data        *dataset.Dataset
	Options     Options
	Scheduler   *anim.Scheduler
	CurrentStep func() int
	Log         *logging.Logger
}

// Logger returns Env.Log or the chart category logger.
func (e Env) Logger() *logging.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logging.Get(logging.CategoryChart)
}

// Step returns the current step, or -1 when no source is wired.
func (e Env) Step() int {
	if e.CurrentStep == nil {
		return -1
	}
	return e.CurrentStep()
}

// Table returns the tabular dataset or an error naming the chart kind.
func (e Env) Table(kind Kind) (*dataset.Table, error) {
	if e.Data == nil || e.Data.Table == nil {
		return nil, fmt.Errorf("%s: needs a tabular source", kind)
	}
	return e.Data.Table, nil
}

// Tree returns the tree dataset or an error naming the chart kind.
func (e Env) Tree(kind Kind) (*dataset.Tree, error) {
	if e.Data == nil || e.Data.Tree == nil {
		return nil, fmt.Errorf("%s: needs a tree source", kind)
	}
	return e.Data.Tree, nil
}

// Options are the free-form per-chart settings from the story file.
type Options map[string]interface{}

// String returns a string option.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Float returns a numeric option; numeric strings are accepted.
func (o Options) Float(key string, def float64) (float64, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return def, fmt.Errorf("option %q: want number, got %v", key, v)
	}
	return f, nil
}

// Bool returns a boolean option.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Strings returns a list option.
func (o Options) Strings(key string) []string {
	raw, ok := o[key].([]interface{})
	if !ok {
		if ss, ok := o[key].([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// Floats returns a numeric list option. "inf" entries map to +Inf.
func (o Options) Floats(key string) ([]float64, error) {
	raw, ok := o[key].([]interface{})
	if !ok {
		if fs, ok := o[key].([]float64); ok {
			return fs, nil
		}
		return nil, nil
	}
	out := make([]float64, 0, len(raw))
	for i, v := range raw {
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("option %q[%d]: want number, got %v", key, i, v)
		}
		out = append(out, f)
	}
	return out, nil
}

// StringMap returns a string-to-string map option.
func (o Options) StringMap(key string) map[string]string {
	out := make(map[string]string)
	switch m := o[key].(type) {
	case map[string]interface{}:
		for k, v := range m {
			out[k] = fmt.Sprint(v)
		}
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Duration accepts Go duration strings ("1.2s") or bare milliseconds.
func (o Options) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	if s, ok := v.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
	}
	if f, ok := toFloat(v); ok {
		return time.Duration(f * float64(time.Millisecond)), nil
	}
	return def, fmt.Errorf("option %q: want duration, got %v", key, v)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
