package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestClone_Local(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src, srcDir := setupTestRepo(t)
	want := headCommit(t, src).ID()

	dest := filepath.Join(resolveTempDir(t), "clone")
	r, err := Clone(ctx, srcDir, dest)
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer r.Close()

	if r.IsBare() || r.IsShallow() {
		t.Errorf("IsBare() = %v, IsShallow() = %v, want false, false", r.IsBare(), r.IsShallow())
	}
	if got, _ := r.RefnameToID(ctx, "HEAD"); got != want {
		t.Errorf("HEAD = %s, want %s", got, want)
	}
	rem, err := r.FindRemote(ctx, "origin")
	if err != nil {
		t.Fatalf("FindRemote(origin) error = %v", err)
	}
	if rem.URL() != srcDir {
		t.Errorf("origin URL = %q, want %q", rem.URL(), srcDir)
	}
}

func TestClone_ShallowBranchBare(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src, srcDir := initTestRepo(t)
	commitFile(t, src, "a.txt", "a\n", "first")
	commitFile(t, src, "b.txt", "b\n", "second")
	tip := headCommit(t, src)
	if _, err := src.CreateBranch(ctx, "release", tip, false, nil, ""); err != nil {
		t.Fatalf("CreateBranch() error = %v", err)
	}

	dest := filepath.Join(resolveTempDir(t), "shallow.git")
	r, err := NewRepoBuilder().Bare(true).Branch("release").Depth(1).Clone(ctx, "file://"+srcDir, dest)
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer r.Close()

	if !r.IsBare() {
		t.Error("IsBare() = false for a bare clone")
	}
	if !r.IsShallow() {
		t.Error("IsShallow() = false for a depth-1 clone")
	}
	head, err := r.Head(ctx)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if head.Name() != "refs/heads/release" {
		t.Errorf("Head() = %q, want refs/heads/release", head.Name())
	}
	if _, err := r.RevparseSingle(ctx, "HEAD~1"); err == nil {
		t.Error("RevparseSingle(HEAD~1) resolved past the shallow boundary")
	}
}

func TestClone_NonEmptyDestination(t *testing.T) {
	t.Parallel()
	_, srcDir := setupTestRepo(t)
	dest := resolveTempDir(t)
	if err := os.WriteFile(filepath.Join(dest, "occupied"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Clone(context.Background(), srcDir, dest); !errors.Is(err, ErrExists) {
		t.Errorf("Clone() into a non-empty directory error = %v, want ErrExists", err)
	}
}

func TestClone_MissingSource(t *testing.T) {
	t.Parallel()
	src := filepath.Join(resolveTempDir(t), "nope")
	dest := filepath.Join(resolveTempDir(t), "clone")

	if _, err := Clone(context.Background(), src, dest); err == nil {
		t.Error("Clone() of a missing source succeeded")
	}
}
