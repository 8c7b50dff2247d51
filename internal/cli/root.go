package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/xferbot/internal/infra/logger"
	"github.com/aalvaropc/xferbot/internal/infra/workspacefinder"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var cleanup func() error

	cmd := &cobra.Command{
		Use:          "xferbot",
		Short:        "xferbot - plate-to-plate liquid transfers from a CSV manifest",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			logRoot := wd
			if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
			}

			// Logging is best effort; a read-only workspace must not block a run.
			cleanup, _ = logger.Setup(logger.Config{
				Root:  logRoot,
				Debug: debug,
			})
			if debug && logger.Path() != "" {
				fmt.Fprintf(os.Stderr, "debug log: %s\n", logger.Path())
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .xferbot/logs/xferbot.log")

	cmd.AddCommand(
		runCmd(),
		planCmd(),
		validateCmd(),
		manifestsCmd(),
		initCmd(),
		versionCmd(),
	)
	return cmd
}
