package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/gate/cli"
	"github.com/grovetools/gate/config"
	"github.com/grovetools/gate/engine"
	"github.com/grovetools/gate/git"
	"github.com/grovetools/gate/match"
	"github.com/grovetools/gate/report"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var files []string
	var workers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured checks against the staged files",
		Long: `Run determines which checks apply to the current changeset, executes
them, and reports the results. The changeset defaults to the files staged
for commit; pass --files to supply one explicitly.

The exit code is 0 when every triggered check passes, otherwise the number
of failed checks (capped at 255).`,
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths := files
			dir := ""
			if len(paths) == 0 {
				paths, dir, err = stagedChangeset(ctx)
				if err != nil {
					return err
				}
			}

			cs, err := match.NewChangeset(paths)
			if err != nil {
				return err
			}

			triggers := match.Triggers(reg, cs)
			logger.WithField("triggered", len(triggers)).Debug("Matched changeset against registry")

			engineOpts, err := engineOptions(cfg, workers)
			if err != nil {
				return err
			}
			engineOpts.Dir = dir

			runner := engine.NewRunner(engineOpts, logger)
			results := runner.Run(ctx, triggers)
			rep := report.Aggregate(results)

			if opts.JSONOutput {
				data, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				cli.NewRenderer().Render(rep)
			}

			if code := rep.ExitCode(); code != 0 {
				return &cli.ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&files, "files", nil, "Run against these paths instead of the staged files")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured concurrency")

	return cmd
}

// stagedChangeset lists the files staged for commit along with the
// repository root. Staged paths are root-relative, so checks that receive
// them must run from the root, not from wherever gate was invoked.
func stagedChangeset(ctx context.Context) ([]string, string, error) {
	root, err := git.Root(ctx, ".")
	if err != nil {
		return nil, "", err
	}
	paths, err := git.StagedFiles(ctx, root)
	if err != nil {
		return nil, "", err
	}
	return paths, root, nil
}

// engineOptions translates the run section of the configuration into
// engine options, applying flag overrides.
func engineOptions(cfg *config.Config, workersOverride int) (engine.Options, error) {
	opts := engine.Options{
		Workers:     cfg.Run.Workers,
		OutputLimit: cfg.Run.OutputLimit,
	}

	if cfg.Run.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Run.Timeout)
		if err != nil {
			return opts, fmt.Errorf("invalid run.timeout: %w", err)
		}
		opts.Timeout = timeout
	}
	if cfg.Run.GracePeriod != "" {
		grace, err := time.ParseDuration(cfg.Run.GracePeriod)
		if err != nil {
			return opts, fmt.Errorf("invalid run.grace_period: %w", err)
		}
		opts.GracePeriod = grace
	}
	if workersOverride > 0 {
		opts.Workers = workersOverride
	}

	return opts, nil
}
