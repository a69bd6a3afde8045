// Package config loads story files: the regions, narrative steps and chart
// bindings of one scroll story, plus loader, logging and host settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"scrollstory/internal/chart"
	"scrollstory/internal/dataset"
	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

// Config holds one story.
type Config struct {
	Name string `yaml:"name"`

	// Viewport is the visible window used by static layouts.
	Viewport Viewport `yaml:"viewport"`

	// Margins is the default inset of every region.
	Margins scene.Margin `yaml:"margins"`

	Regions []RegionConfig `yaml:"regions"`
	Steps   []StepConfig   `yaml:"steps"`
	Charts  []ChartConfig  `yaml:"charts"`

	Loader  LoaderConfig   `yaml:"loader"`
	Logging logging.Config `yaml:"logging"`
	Host    HostConfig     `yaml:"host"`

	// BaseDir is the story file's directory; relative paths resolve
	// against it.
	BaseDir string `yaml:"-"`
}

// Viewport is a width and height in device-independent pixels.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RegionConfig declares a named rendering area and its static size.
type RegionConfig struct {
	ID     string        `yaml:"id"`
	Width  float64       `yaml:"width"`
	Height float64       `yaml:"height"`
	Margin *scene.Margin `yaml:"margin,omitempty"`
}

// StepConfig is one narrative section. Text is markdown.
type StepConfig struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	// Height is the section's scroll height in lines; 0 derives it from
	// the rendered text.
	Height int `yaml:"height,omitempty"`
}

// ChartConfig binds a chart kind and data source to a region and a step.
type ChartConfig struct {
	Region  string         `yaml:"region"`
	Step    int            `yaml:"step"`
	Kind    string         `yaml:"kind"`
	Source  dataset.Source `yaml:"source"`
	Options chart.Options  `yaml:"options,omitempty"`
}

// LoaderConfig configures dataset fetching.
type LoaderConfig struct {
	DataDir     string `yaml:"data_dir"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
}

// HostConfig tunes the interactive host.
type HostConfig struct {
	// ResizeDebounce delays resize handling; empty means none.
	ResizeDebounce  string  `yaml:"resize_debounce"`
	TriggerFraction float64 `yaml:"trigger_fraction"`
	FrameInterval   string  `yaml:"frame_interval"`
}

// DefaultConfig returns the defaults every story starts from.
func DefaultConfig() *Config {
	return &Config{
		Name:     "story",
		Viewport: Viewport{Width: 1280, Height: 800},
		Margins:  scene.Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
		Loader: LoaderConfig{
			DataDir:     "data",
			Timeout:     "30s",
			Concurrency: 4,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
		Host: HostConfig{
			TriggerFraction: 1.0 / 3,
			FrameInterval:   "50ms",
		},
	}
}

// Load reads a story file, applies environment overrides and records the
// file's directory. It does not validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse story: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve story path: %w", err)
	}
	cfg.BaseDir = filepath.Dir(abs)

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the story as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create story directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal story: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write story: %w", err)
	}
	return nil
}

// Sources returns the chart data sources in chart order.
func (c *Config) Sources() []dataset.Source {
	out := make([]dataset.Source, len(c.Charts))
	for i, ch := range c.Charts {
		out[i] = ch.Source
	}
	return out
}

// DataDir returns the loader data directory, resolved against BaseDir.
func (c *Config) DataDir() string {
	if c.Loader.DataDir == "" || filepath.IsAbs(c.Loader.DataDir) || c.BaseDir == "" {
		return c.Loader.DataDir
	}
	return filepath.Join(c.BaseDir, c.Loader.DataDir)
}

// Region returns the region declaration for id.
func (c *Config) Region(id string) (RegionConfig, bool) {
	for _, r := range c.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return RegionConfig{}, false
}

// GetLoaderTimeout returns the per-source fetch timeout.
func (c *Config) GetLoaderTimeout() time.Duration {
	return parseDuration(c.Loader.Timeout, 30*time.Second)
}

// GetResizeDebounce returns the resize debounce; zero disables it.
func (c *Config) GetResizeDebounce() time.Duration {
	return parseDuration(c.Host.ResizeDebounce, 0)
}

// GetFrameInterval returns the animation frame interval.
func (c *Config) GetFrameInterval() time.Duration {
	return parseDuration(c.Host.FrameInterval, 50*time.Millisecond)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
