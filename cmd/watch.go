package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/gate/cli"
	"github.com/grovetools/gate/engine"
	"github.com/grovetools/gate/match"
	"github.com/grovetools/gate/report"
	"github.com/grovetools/gate/watch"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var ignore []string
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run checks whenever matched files change",
		Long: `Watch monitors the working tree and re-runs the applicable checks
each time files change, using the changed files as the changeset. Useful as
a feedback loop while editing; the commit gate itself stays 'gate run'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			logger := cli.GetLogger(cmd)

			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}
			reg, err := cfg.BuildRegistry()
			if err != nil {
				return err
			}
			engineOpts, err := engineOptions(cfg, 0)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := engine.NewRunner(engineOpts, logger)
			renderer := cli.NewRenderer()

			onChange := func(paths []string) {
				cs, err := match.NewChangeset(paths)
				if err != nil {
					logger.WithError(err).Warn("Ignoring unusable change batch")
					return
				}
				triggers := match.Triggers(reg, cs)
				if len(triggers) == 0 {
					return
				}
				rep := report.Aggregate(runner.Run(ctx, triggers))
				renderer.Render(rep)
			}

			w, err := watch.New(".", ignore, time.Duration(debounceMs)*time.Millisecond, onChange)
			if err != nil {
				return err
			}

			logger.Info("Watching for changes")
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Additional ignore patterns (gitignore syntax)")
	cmd.Flags().IntVar(&debounceMs, "debounce", 300, "Debounce window in milliseconds")

	return cmd
}
