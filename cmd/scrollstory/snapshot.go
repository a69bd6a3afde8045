package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scrollstory/internal/anim"
	"scrollstory/internal/browser"
	"scrollstory/internal/config"
	"scrollstory/internal/display"
	"scrollstory/internal/logging"
	"scrollstory/internal/region"
	"scrollstory/internal/scene"
)

var (
	snapshotOut       string
	snapshotSettle    bool
	snapshotLayoutURL string
)

// snapshotCmd renders every step headless
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [story.yaml]",
	Short: "Write one SVG per visible region for every step",
	Long: `Builds the story without a terminal and walks its steps in order.
For each step the visible regions are written as step-NN-<region>.svg.

With --settle, animated charts are triggered and fast-forwarded before the
step is written. With --layout-url, region sizes are measured from the
elements of a live page (by id) instead of the sizes in the story.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadStory(args[0])
	if err != nil {
		return err
	}
	if err := applyStoryLogging(cfg, false); err != nil {
		return err
	}
	log := logging.Get(logging.CategoryHost)

	ctx, cancel := buildContext(cmd.Context())
	defer cancel()

	var layout region.LayoutProvider = staticLayout(cfg)
	if snapshotLayoutURL != "" {
		bc := browser.DefaultConfig()
		if cfg.Viewport.Width > 0 {
			bc.ViewportWidth = int(cfg.Viewport.Width)
		}
		if cfg.Viewport.Height > 0 {
			bc.ViewportHeight = int(cfg.Viewport.Height)
		}
		page, err := browser.Open(ctx, bc, snapshotLayoutURL)
		if err != nil {
			return fmt.Errorf("failed to open layout page: %w", err)
		}
		defer page.Close()
		layout = region.NewDOMLayout(page)
	}

	// A manual clock keeps headless output independent of wall time.
	sched := anim.NewScheduler(anim.NewManualClock(time.Unix(0, 0)))
	d := newDisplay(cfg, newRegistry(cfg, layout), sched, nil)
	if err := d.Build(ctx, cfg.Charts); err != nil {
		return err
	}

	if err := os.MkdirAll(snapshotOut, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	for step := 0; step < stepCount(cfg); step++ {
		d.OnStepChange(step)
		if snapshotSettle {
			if err := d.Animate(); err != nil {
				log.Warn("step %d: %v", step, err)
			}
			d.FastForward()
		}
		n, err := writeStep(d, snapshotOut, step)
		if err != nil {
			return err
		}
		written += n
	}
	log.Info("wrote %d snapshots to %s", written, snapshotOut)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d snapshots to %s\n", written, snapshotOut)
	return nil
}

// writeStep writes the visible regions of the current step.
func writeStep(d *display.Display, dir string, step int) (int, error) {
	n := 0
	for _, rs := range d.Regions() {
		if rs.Hidden {
			continue
		}
		s, ok := d.Surface(rs.ID)
		if !ok {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("step-%02d-%s.svg", step, rs.ID))
		if err := writeSVGFile(path, s); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func writeSVGFile(path string, s *scene.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := scene.WriteSVG(f, s); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// stepCount is the number of narrative steps, extended to cover every chart
// binding.
func stepCount(cfg *config.Config) int {
	n := len(cfg.Steps)
	for _, ch := range cfg.Charts {
		if ch.Step+1 > n {
			n = ch.Step + 1
		}
	}
	return n
}
