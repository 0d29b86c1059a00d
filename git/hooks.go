package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const preCommitHookTemplate = `#!/bin/sh
# Gate git hook - pre-commit
# Auto-generated, do not edit directly

GATE_BIN="{{.GateBinary}}"

# Check if gate is installed
if ! command -v "$GATE_BIN" >/dev/null 2>&1; then
    echo "gate not found. Skipping pre-commit checks."
    exit 0
fi

cd "$(git rev-parse --show-toplevel)" || exit 1
exec "$GATE_BIN" run
`

// HookManager installs and removes the gate's git hooks.
type HookManager struct {
	gateBinary string
}

// NewHookManager creates a new hook manager. An empty binary name defaults
// to "gate" resolved from PATH.
func NewHookManager(gateBinary string) *HookManager {
	if gateBinary == "" {
		gateBinary = "gate"
	}
	return &HookManager{
		gateBinary: gateBinary,
	}
}

// InstallHooks writes the pre-commit hook into the repository at repoPath.
// An existing foreign hook is backed up, never overwritten in place.
func (m *HookManager) InstallHooks(ctx context.Context, repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("create hooks directory: %w", err)
	}

	if err := m.installHook(hooksDir, "pre-commit", preCommitHookTemplate); err != nil {
		return fmt.Errorf("install pre-commit hook: %w", err)
	}

	return nil
}

// UninstallHooks removes the gate's pre-commit hook, restoring any backup
// made at install time. Foreign hooks are left alone.
func (m *HookManager) UninstallHooks(ctx context.Context, repoPath string) error {
	hooksDir := filepath.Join(repoPath, ".git", "hooks")
	hookPath := filepath.Join(hooksDir, "pre-commit")

	if !m.isGateHook(hookPath) {
		return nil
	}

	if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pre-commit hook: %w", err)
	}

	backupPath := hookPath + ".pre-gate"
	if _, err := os.Stat(backupPath); err == nil {
		if err := os.Rename(backupPath, hookPath); err != nil {
			return fmt.Errorf("restore backed-up hook: %w", err)
		}
	}

	return nil
}

// installHook installs a single git hook
func (m *HookManager) installHook(hooksDir, hookName, templateContent string) error {
	hookPath := filepath.Join(hooksDir, hookName)

	if _, err := os.Stat(hookPath); err == nil {
		if !m.isGateHook(hookPath) {
			// Backup existing hook
			backupPath := hookPath + ".pre-gate"
			if err := os.Rename(hookPath, backupPath); err != nil {
				return fmt.Errorf("backup existing hook: %w", err)
			}
		}
	}

	tmpl, err := template.New(hookName).Parse(templateContent)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		GateBinary string
	}{
		GateBinary: m.gateBinary,
	}

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	// Git hooks need to be executable
	if err := os.WriteFile(hookPath, buf.Bytes(), 0755); err != nil {
		return fmt.Errorf("write hook file: %w", err)
	}

	return nil
}

// isGateHook checks if a hook file is managed by the gate
func (m *HookManager) isGateHook(hookPath string) bool {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		return false
	}
	return bytes.Contains(content, []byte("Gate git hook"))
}
