package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"scrollstory/internal/logging"
	"scrollstory/internal/watch"
)

var (
	playWatch bool
	playStep  int
)

// playCmd runs the interactive terminal host
var playCmd = &cobra.Command{
	Use:   "play [story.yaml]",
	Short: "Play a story in the terminal",
	Long: `Opens the story full screen. The narrative scrolls on the left; the
step under the trigger line (a third of the way down) is the current step and
its charts are shown in the regions on the right.

Keys: j/k or the mouse wheel scroll, n/p jump between steps, s starts the
current step's animations, r resets them, f skips to their end, tab cycles
the highlighted entity, q quits. Hovering a chart shows its tooltips.

With --watch, edits to the story file or its data directory rebuild every
chart in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadStory(args[0])
	if err != nil {
		return err
	}
	if err := applyStoryLogging(cfg, true); err != nil {
		return err
	}
	log := logging.Get(logging.CategoryHost)

	m := newPlayModel(args[0], cfg, playStep)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	if playWatch {
		w, err := watch.New(args[0], cfg.DataDir(), func(paths []string) {
			p.Send(storyChangedMsg{paths: paths})
		})
		if err != nil {
			return fmt.Errorf("failed to watch story: %w", err)
		}
		if err := w.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to watch story: %w", err)
		}
		defer w.Stop()
		log.Info("watching %s", args[0])
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	if fm, ok := final.(*playModel); ok && fm.fatal != nil {
		return fm.fatal
	}
	return nil
}
