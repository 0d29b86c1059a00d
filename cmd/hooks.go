package cmd

import (
	"fmt"

	"github.com/grovetools/gate/git"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command
func NewInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the git pre-commit hook",
		Long: `Install writes a pre-commit hook into .git/hooks that invokes
'gate run' before every commit. An existing hook is backed up and restored
on uninstall.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := git.Root(ctx, ".")
			if err != nil {
				return err
			}

			m := git.NewHookManager("gate")
			if err := m.InstallHooks(ctx, root); err != nil {
				return err
			}

			fmt.Println("Installed pre-commit hook.")
			return nil
		},
	}
}

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the git pre-commit hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := git.Root(ctx, ".")
			if err != nil {
				return err
			}

			m := git.NewHookManager("gate")
			if err := m.UninstallHooks(ctx, root); err != nil {
				return err
			}

			fmt.Println("Removed pre-commit hook.")
			return nil
		},
	}
}
