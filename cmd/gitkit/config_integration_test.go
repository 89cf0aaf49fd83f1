//go:build integration

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/git"
)

// TestConfig_SetGetUnset tests repository configuration values.
func TestConfig_SetGetUnset(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")

	ctx, _ := testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "set", "gitkit.note", "hello world"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	ctx, out := testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "get", "gitkit.note"); err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "hello world" {
		t.Errorf("config get = %q", got)
	}

	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "set", "--bool", "gitkit.flag", "1"); err != nil {
		t.Fatalf("config set --bool failed: %v", err)
	}
	ctx, out = testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "get", "--bool", "gitkit.flag"); err != nil {
		t.Fatalf("config get --bool failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "true" {
		t.Errorf("config get --bool = %q", got)
	}

	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "unset", "gitkit.note"); err != nil {
		t.Fatalf("config unset failed: %v", err)
	}
	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "get", "gitkit.note"); !errors.Is(err, git.ErrNotFound) {
		t.Errorf("config get after unset error = %v, want ErrNotFound", err)
	}
	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "unset", "gitkit.note"); !errors.Is(err, git.ErrNotFound) {
		t.Errorf("second unset error = %v, want ErrNotFound", err)
	}
}

// TestConfigShow_MergesLocalOverrides tests `gitkit config show`.
//
// Scenario: the repository's .gitkit.toml overrides reset.default_kind
// Expected: show reports the override; --global does not
func TestConfigShow_MergesLocalOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")
	local := "[reset]\ndefault_kind = \"hard\"\n"
	if err := os.WriteFile(filepath.Join(repo, config.LocalConfigFileName), []byte(local), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, out := testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "show"); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out.String(), `default_kind = "hard"`) {
		t.Errorf("config show should include the local override:\n%s", out.String())
	}

	ctx, out = testContext(t, nil, repo)
	if err := execute(t, ctx, newConfigCmd(), "show", "--global"); err != nil {
		t.Fatalf("config show --global failed: %v", err)
	}
	if !strings.Contains(out.String(), `default_kind = "mixed"`) {
		t.Errorf("config show --global should ignore the override:\n%s", out.String())
	}
}

// TestConfigInit_Stdout tests printing the default config.
func TestConfigInit_Stdout(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, nil, t.TempDir())
	if err := execute(t, ctx, newConfigCmd(), "init", "--stdout"); err != nil {
		t.Fatalf("config init --stdout failed: %v", err)
	}
	if out.String() != config.Template() {
		t.Errorf("config init --stdout printed:\n%s", out.String())
	}
}
