package chart

import (
	"fmt"
	"sort"
)

// Kind names a chart implementation.
type Kind string

const (
	KindRacingBars  Kind = "racing-bars"
	KindHeatmap     Kind = "heatmap"
	KindStackedBars Kind = "stacked-bars"
	KindBeeswarm    Kind = "beeswarm"
)

// ParseKind accepts exactly the known kinds.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindRacingBars, KindHeatmap, KindStackedBars, KindBeeswarm:
		return k, nil
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// ConfigurationError is a story-file mistake detected before anything is
// loaded or drawn.
type ConfigurationError struct {
	Chart  int // index in the chart list, -1 when not chart specific
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if e.Chart >= 0 {
		return fmt.Sprintf("chart %d: %s: %s", e.Chart, e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Field, msg)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Factory builds an uninitialized adapter.
type Factory func(env Env) (Adapter, error)

// Registry maps kinds to factories.
type Registry struct {
	factories map[Kind]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register binds kind to f, replacing any previous binding.
func (r *Registry) Register(kind Kind, f Factory) {
	r.factories[kind] = f
}

// Kinds lists registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolve validates a configured kind string against the registry.
func (r *Registry) Resolve(s string) (Kind, Factory, error) {
	k, err := ParseKind(s)
	if err != nil {
		return "", nil, err
	}
	f, ok := r.factories[k]
	if !ok {
		return "", nil, fmt.Errorf("chart kind %q has no registered constructor", s)
	}
	return k, f, nil
}
