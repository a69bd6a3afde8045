package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scrollstory/internal/logging"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration
	logFile string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scrollstory",
	Short: "scrollstory - scroll-driven data stories in the terminal",
	Long: `scrollstory plays a story file: narrative steps on the left, chart
regions on the right. Scrolling through the steps activates the charts bound
to the current step and hides the rest.

Stories can also be rendered headless to one SVG per region per step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logFile != "" {
			config.OutputPaths = []string{logFile}
			config.ErrorOutputPaths = []string{logFile}
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetBase(logger, nil)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall build timeout")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	playCmd.Flags().BoolVar(&playWatch, "watch", false, "Rebuild when the story or its data changes")
	playCmd.Flags().IntVar(&playStep, "step", 0, "Initial step")

	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshots", "Output directory")
	snapshotCmd.Flags().BoolVar(&snapshotSettle, "settle", false, "Run and fast-forward animations before writing each step")
	snapshotCmd.Flags().StringVar(&snapshotLayoutURL, "layout-url", "", "Measure regions from this page instead of the story sizes")

	rootCmd.AddCommand(playCmd, snapshotCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
