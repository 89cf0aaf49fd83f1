//go:build integration

package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/gitkit/internal/git"
)

// TestRemote_AddListShow tests configuring a remote.
func TestRemote_AddListShow(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")

	ctx, _ := testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "add", "upstream", "https://example.com/org/repo.git"); err != nil {
		t.Fatalf("remote add failed: %v", err)
	}
	if got := runGit(t, repo, "config", "remote.upstream.fetch"); got != "+refs/heads/*:refs/remotes/upstream/*" {
		t.Errorf("fetch refspec = %q", got)
	}

	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "add", "upstream", "https://example.com/other.git"); !errors.Is(err, git.ErrExists) {
		t.Errorf("second remote add error = %v, want ErrExists", err)
	}

	ctx, out := testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "list", "--json"); err != nil {
		t.Fatalf("remote list failed: %v", err)
	}
	var remotes []remoteJSON
	if err := json.Unmarshal(out.Bytes(), &remotes); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if len(remotes) != 1 || remotes[0].Name != "upstream" || remotes[0].URL != "https://example.com/org/repo.git" {
		t.Errorf("remote list = %+v", remotes)
	}

	ctx, out = testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "show", "--json", "upstream"); err != nil {
		t.Fatalf("remote show failed: %v", err)
	}
	var rem remoteJSON
	if err := json.Unmarshal(out.Bytes(), &rem); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if len(rem.Fetch) != 1 || rem.Fetch[0] != "+refs/heads/*:refs/remotes/upstream/*" {
		t.Errorf("remote show = %+v", rem)
	}
}

// TestRemote_ShowSuggestsName tests "did you mean" for remotes.
func TestRemote_ShowSuggestsName(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")
	runGit(t, repo, "remote", "add", "upstream", "https://example.com/repo.git")

	ctx, _ := testContext(t, nil, repo)
	err := execute(t, ctx, newRemoteCmd(), "show", "upstrem")
	if !errors.Is(err, git.ErrNotFound) {
		t.Fatalf("remote show error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "upstream") {
		t.Errorf("error should suggest upstream: %v", err)
	}
}

// TestRemote_Fetch tests fetching configured remotes.
//
// Scenario: two remotes pointing at local repositories, `gitkit remote fetch --all`
// Expected: both remote-tracking branches exist
func TestRemote_Fetch(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")
	one := setupTestRepo(t, tmpDir, "one")
	two := setupTestRepo(t, tmpDir, "two")
	runGit(t, repo, "remote", "add", "one", one)
	runGit(t, repo, "remote", "add", "two", two)

	ctx, _ := testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "fetch", "one"); err != nil {
		t.Fatalf("remote fetch one failed: %v", err)
	}
	if got := runGit(t, repo, "rev-parse", "refs/remotes/one/main"); got != runGit(t, one, "rev-parse", "HEAD") {
		t.Errorf("one/main = %s", got)
	}

	commitFile(t, one, "a.txt", "a\n")
	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "fetch", "--all"); err != nil {
		t.Fatalf("remote fetch --all failed: %v", err)
	}
	for _, r := range []struct{ name, dir string }{{"one", one}, {"two", two}} {
		if got := runGit(t, repo, "rev-parse", "refs/remotes/"+r.name+"/main"); got != runGit(t, r.dir, "rev-parse", "HEAD") {
			t.Errorf("%s/main = %s", r.name, got)
		}
	}
}

// TestRemote_FetchURL tests fetching from a URL without a configured remote.
func TestRemote_FetchURL(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")
	other := setupTestRepo(t, tmpDir, "other")

	ctx, _ := testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "fetch", "--url", other); !errors.Is(err, git.ErrInvalidSpec) {
		t.Errorf("fetch --url without refspec error = %v, want ErrInvalidSpec", err)
	}

	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newRemoteCmd(), "fetch", "--url", other, "--refspec", "refs/heads/main:refs/other/main"); err != nil {
		t.Fatalf("fetch --url failed: %v", err)
	}
	if got := runGit(t, repo, "rev-parse", "refs/other/main"); got != runGit(t, other, "rev-parse", "HEAD") {
		t.Errorf("refs/other/main = %s", got)
	}
	if got := runGit(t, repo, "remote"); got != "" {
		t.Errorf("fetch --url configured a remote: %q", got)
	}
}

// TestSubmodule_AddListShow tests adding a submodule from a local repository.
//
// Scenario: `gitkit submodule add <lib> libs/lib`
// Expected: the submodule is checked out and staged at lib's HEAD
func TestSubmodule_AddListShow(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")
	lib := setupTestRepo(t, tmpDir, "lib")
	libHead := runGit(t, lib, "rev-parse", "HEAD")

	ctx, _ := testContext(t, nil, repo)
	if err := execute(t, ctx, newSubmoduleCmd(), "add", lib, "libs/lib"); err != nil {
		t.Fatalf("submodule add failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(repo, "libs", "lib", "README.md")); err != nil {
		t.Errorf("submodule not checked out: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo, ".git", "modules", "libs", "lib", "HEAD")); err != nil {
		t.Errorf("gitlink control directory missing: %v", err)
	}
	staged := runGit(t, repo, "ls-files", "--stage", "--", "libs/lib")
	if !strings.HasPrefix(staged, "160000 "+libHead) {
		t.Errorf("staged submodule = %q, want 160000 %s", staged, libHead)
	}

	ctx, out := testContext(t, nil, repo)
	if err := execute(t, ctx, newSubmoduleCmd(), "list", "--json"); err != nil {
		t.Fatalf("submodule list failed: %v", err)
	}
	var subs []submoduleJSON
	if err := json.Unmarshal(out.Bytes(), &subs); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if len(subs) != 1 || subs[0].Path != "libs/lib" || subs[0].URL != lib {
		t.Fatalf("submodule list = %+v", subs)
	}
	if subs[0].IndexID == nil || subs[0].IndexID.String() != libHead {
		t.Errorf("index id = %v, want %s", subs[0].IndexID, libHead)
	}
	if subs[0].Head == nil || subs[0].Head.String() != libHead {
		t.Errorf("checked-out head = %v, want %s", subs[0].Head, libHead)
	}

	ctx, _ = testContext(t, nil, repo)
	if err := execute(t, ctx, newSubmoduleCmd(), "show", "libs/lb"); !errors.Is(err, git.ErrNotFound) {
		t.Errorf("submodule show typo error = %v, want ErrNotFound", err)
	}
}

// TestSubmodule_AddNoCheckout tests recording a submodule without fetching.
func TestSubmodule_AddNoCheckout(t *testing.T) {
	t.Parallel()

	tmpDir := resolveTestPath(t, t.TempDir())
	repo := setupTestRepo(t, tmpDir, "repo")

	ctx, _ := testContext(t, nil, repo)
	if err := execute(t, ctx, newSubmoduleCmd(), "add", "--no-checkout", "https://example.com/lib.git", "vendor/lib"); err != nil {
		t.Fatalf("submodule add failed: %v", err)
	}
	if got := runGit(t, repo, "config", "-f", ".gitmodules", "submodule.vendor/lib.url"); got != "https://example.com/lib.git" {
		t.Errorf(".gitmodules url = %q", got)
	}
	if got := runGit(t, repo, "ls-files", "--stage", "--", "vendor/lib"); got != "" {
		t.Errorf("submodule should not be staged yet: %q", got)
	}

	ctx, out := testContext(t, nil, repo)
	if err := execute(t, ctx, newSubmoduleCmd(), "list", "--json"); err != nil {
		t.Fatalf("submodule list failed: %v", err)
	}
	var subs []submoduleJSON
	if err := json.Unmarshal(out.Bytes(), &subs); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if len(subs) != 1 || subs[0].IndexID != nil || subs[0].Head != nil {
		t.Errorf("submodule list = %+v, want one entry with no commits", subs)
	}
}
