//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/output"
)

// resolveTestPath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolveTestPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// runGit runs git in dir and returns its trimmed stdout.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = string(ee.Stderr)
		}
		t.Fatalf("git %v failed: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// setupTestRepo creates a git repo with an initial commit in dir/name.
// Returns the absolute path to the created repo (with symlinks resolved).
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolveTestPath(t, dir)
	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runGit(t, repoPath, "init", "--quiet", "--initial-branch=main")
	runGit(t, repoPath, "config", "user.email", "test@test.com")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGit(t, repoPath, "add", "README.md")
	runGit(t, repoPath, "commit", "--quiet", "-m", "Initial commit")

	return repoPath
}

// commitFile writes content to name in repoPath and commits it.
func commitFile(t *testing.T, repoPath, name, content string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	runGit(t, repoPath, "add", name)
	runGit(t, repoPath, "commit", "--quiet", "-m", "Update "+name)
	return runGit(t, repoPath, "rev-parse", "HEAD")
}

// testContext returns a context rooted at workDir with cfg and a buffer
// collecting primary output.
func testContext(t *testing.T, cfg *config.Config, workDir string) (context.Context, *bytes.Buffer) {
	t.Helper()
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	var out bytes.Buffer
	ctx := context.Background()
	ctx = config.WithResolver(ctx, config.NewResolver(cfg))
	ctx = withWorkDir(ctx, workDir)
	ctx = output.WithPrinter(ctx, &out)
	return ctx, &out
}

// execute runs cmd with args under ctx.
func execute(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetContext(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}
