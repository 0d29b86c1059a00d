package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/gate/testutil"
)

func TestStagedChangesetFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)
	testutil.StageFiles(t, dir, map[string]string{
		"src/lib.rs": "fn main() {}\n",
	})

	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	// Staged paths are root-relative, so the execution directory handed
	// back must be the root even when gate runs from a subdirectory.
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(sub); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })

	paths, execDir, err := stagedChangeset(context.Background())
	if err != nil {
		t.Fatalf("stagedChangeset() error = %v", err)
	}

	if len(paths) != 1 || paths[0] != "src/lib.rs" {
		t.Fatalf("paths = %v, want [src/lib.rs]", paths)
	}
	if _, err := os.Stat(filepath.Join(execDir, paths[0])); err != nil {
		t.Errorf("staged path %q does not resolve from %q: %v", paths[0], execDir, err)
	}
}
