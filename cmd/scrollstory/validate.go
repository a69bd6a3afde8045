package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrollstory/internal/chart/catalog"
)

// validateCmd checks a story without fetching data
var validateCmd = &cobra.Command{
	Use:   "validate [story.yaml]",
	Short: "Check a story file for configuration errors",
	Long: `Loads the story, applies environment overrides and checks every
region, step and chart binding. Chart kinds are resolved against the built-in
catalog. Data sources are not fetched.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadStory(args[0])
	if err != nil {
		return err
	}
	kinds := catalog.Default()
	for i, ch := range cfg.Charts {
		if _, _, err := kinds.Resolve(ch.Kind); err != nil {
			return fmt.Errorf("chart %d: %w", i, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d regions, %d steps, %d charts\n",
		cfg.Name, len(cfg.Regions), stepCount(cfg), len(cfg.Charts))
	return nil
}
