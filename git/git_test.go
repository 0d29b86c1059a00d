package git

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/grovetools/gate/errors"
	"github.com/grovetools/gate/testutil"
)

func TestStagedFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	testutil.StageFiles(t, dir, map[string]string{
		"src/lib.rs": "fn main() {}\n",
		"Cargo.toml": "[package]\n",
	})

	files, err := StagedFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("StagedFiles() error = %v", err)
	}

	sort.Strings(files)
	want := []string{"Cargo.toml", "src/lib.rs"}
	if len(files) != len(want) {
		t.Fatalf("StagedFiles() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("StagedFiles() = %v, want %v", files, want)
			break
		}
	}
}

func TestStagedFilesEmpty(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	files, err := StagedFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("StagedFiles() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("StagedFiles() = %v, want none", files)
	}
}

func TestRootOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := Root(context.Background(), dir)
	if !errors.Is(err, errors.ErrCodeNotARepository) {
		t.Errorf("Root() error = %v, want NOT_A_REPOSITORY", err)
	}
}

func TestStagedFilesGitMissing(t *testing.T) {
	// An empty PATH makes the git lookup fail the same way a machine
	// without git would.
	t.Setenv("PATH", t.TempDir())

	_, err := StagedFiles(context.Background(), t.TempDir())
	if !errors.Is(err, errors.ErrCodeGitNotInstalled) {
		t.Errorf("StagedFiles() error = %v, want GIT_NOT_INSTALLED", err)
	}
}

func TestInstallAndUninstallHooks(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	m := NewHookManager("gate")
	if err := m.InstallHooks(context.Background(), dir); err != nil {
		t.Fatalf("InstallHooks() error = %v", err)
	}

	hookPath := filepath.Join(dir, ".git", "hooks", "pre-commit")
	content, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("hook not written: %v", err)
	}
	if string(content) == "" || !m.isGateHook(hookPath) {
		t.Error("installed hook should carry the gate marker")
	}

	info, err := os.Stat(hookPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Error("installed hook should be executable")
	}

	if err := m.UninstallHooks(context.Background(), dir); err != nil {
		t.Fatalf("UninstallHooks() error = %v", err)
	}
	if _, err := os.Stat(hookPath); !os.IsNotExist(err) {
		t.Error("hook should be removed after uninstall")
	}
}

func TestInstallBacksUpForeignHook(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	hooksDir := filepath.Join(dir, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		t.Fatal(err)
	}
	hookPath := filepath.Join(hooksDir, "pre-commit")
	foreign := "#!/bin/sh\necho custom hook\n"
	if err := os.WriteFile(hookPath, []byte(foreign), 0755); err != nil {
		t.Fatal(err)
	}

	m := NewHookManager("gate")
	if err := m.InstallHooks(context.Background(), dir); err != nil {
		t.Fatalf("InstallHooks() error = %v", err)
	}

	backup, err := os.ReadFile(hookPath + ".pre-gate")
	if err != nil {
		t.Fatalf("foreign hook was not backed up: %v", err)
	}
	if string(backup) != foreign {
		t.Error("backup content does not match the original hook")
	}

	// Uninstall restores the foreign hook.
	if err := m.UninstallHooks(context.Background(), dir); err != nil {
		t.Fatalf("UninstallHooks() error = %v", err)
	}
	restored, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("foreign hook was not restored: %v", err)
	}
	if string(restored) != foreign {
		t.Error("restored hook content does not match the original")
	}
}
