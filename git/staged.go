// Package git supplies the changeset source and hook installation for the
// gate. The core engine never touches version control; this package is the
// collaborator that does.
package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/grovetools/gate/command"
	"github.com/grovetools/gate/errors"
)

// Root returns the top-level directory of the work tree containing dir.
func Root(ctx context.Context, dir string) (string, error) {
	cmdBuilder := command.NewSafeBuilder()

	cmd, err := cmdBuilder.Build(ctx, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		if stderrors.Is(err, exec.ErrNotFound) {
			return "", errors.GitNotInstalled(err)
		}
		return "", errors.NotARepository(dir)
	}

	return strings.TrimSpace(string(output)), nil
}

// StagedFiles returns the relative paths of files staged for commit in the
// repository containing dir. Deleted files are excluded; checks cannot run
// against paths that no longer exist.
func StagedFiles(ctx context.Context, dir string) ([]string, error) {
	cmdBuilder := command.NewSafeBuilder()

	cmd, err := cmdBuilder.Build(ctx, "git",
		"diff", "--cached", "--name-only", "--diff-filter=d", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to build command: %w", err)
	}
	execCmd := cmd.Exec()
	execCmd.Dir = dir
	output, err := execCmd.Output()
	if err != nil {
		if stderrors.Is(err, exec.ErrNotFound) {
			return nil, errors.GitNotInstalled(err)
		}
		outputStr := string(output)
		if strings.Contains(outputStr, "not a git repository") {
			return nil, errors.NotARepository(dir)
		}
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}

	var files []string
	for _, f := range strings.Split(string(output), "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}
