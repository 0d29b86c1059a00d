package main

import (
	stderrors "errors"
	"os"

	"github.com/grovetools/gate/cli"
	"github.com/grovetools/gate/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"gate",
		"Pre-commit validation gate: matches checks to changed files and runs them",
	)

	rootCmd.AddCommand(cmd.NewRunCmd())
	rootCmd.AddCommand(cmd.NewListCmd())
	rootCmd.AddCommand(cmd.NewInstallCmd())
	rootCmd.AddCommand(cmd.NewUninstallCmd())
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if stderrors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		handler := cli.NewErrorHandler(false)
		_ = handler.Handle(err)
		os.Exit(1)
	}
}
