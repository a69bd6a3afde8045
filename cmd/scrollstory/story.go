package main

import (
	"context"

	"go.uber.org/zap"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart/catalog"
	"scrollstory/internal/config"
	"scrollstory/internal/dataset"
	"scrollstory/internal/display"
	"scrollstory/internal/logging"
	"scrollstory/internal/region"
)

// loadStory reads and validates a story file.
func loadStory(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyStoryLogging replaces the bootstrap logger with the story's logging
// settings. Command line flags win over the story. With interactive set and
// no log file, logging is discarded so it cannot draw over the terminal UI.
func applyStoryLogging(cfg *config.Config, interactive bool) error {
	lc := cfg.Logging
	if verbose {
		lc.DebugMode = true
	}
	if logFile != "" {
		lc.File = logFile
	}
	if interactive && lc.File == "" {
		logging.SetBase(zap.NewNop(), lc.Categories)
		return nil
	}
	return logging.Initialize(lc)
}

// staticLayout serves the region sizes declared in the story.
func staticLayout(cfg *config.Config) *region.StaticLayout {
	boxes := make(map[string]region.Box, len(cfg.Regions))
	for _, r := range cfg.Regions {
		boxes[r.ID] = region.Box{Width: r.Width, Height: r.Height}
	}
	return region.NewStaticLayout(boxes, cfg.Viewport.Height)
}

// newRegistry applies the story's default and per-region margins.
func newRegistry(cfg *config.Config, layout region.LayoutProvider) *region.Registry {
	var opts []region.Option
	for _, r := range cfg.Regions {
		if r.Margin != nil {
			opts = append(opts, region.WithMargin(r.ID, *r.Margin))
		}
	}
	return region.NewRegistry(layout, cfg.Margins, opts...)
}

// newDisplay wires the loader and chart catalog into an unbuilt display.
// cache may be nil.
func newDisplay(cfg *config.Config, regions *region.Registry, sched *anim.Scheduler, cache *dataset.ParseCache, opts ...display.Option) *display.Display {
	fetcher := dataset.NewMultiFetcher(cfg.DataDir(), cfg.GetLoaderTimeout())
	loader := dataset.NewLoader(fetcher,
		dataset.WithConcurrency(cfg.Loader.Concurrency),
		dataset.WithTimeout(cfg.GetLoaderTimeout()),
		dataset.WithCache(cache),
	)
	opts = append([]display.Option{display.WithScheduler(sched)}, opts...)
	return display.New(regions, loader, catalog.Default(), opts...)
}

// buildContext bounds a build by the --timeout flag.
func buildContext(parent context.Context) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
