package git

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestCreateRemote_FindAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)

	rem, err := r.CreateRemote(ctx, "upstream", "https://example.com/repo.git")
	if err != nil {
		t.Fatalf("CreateRemote() error = %v", err)
	}
	if name, ok := rem.Name(); !ok || name != "upstream" {
		t.Errorf("Name() = %q, %v, want upstream, true", name, ok)
	}
	if rem.URL() != "https://example.com/repo.git" {
		t.Errorf("URL() = %q", rem.URL())
	}
	if got := rem.FetchRefspecs(); !slices.Equal(got, []string{"+refs/heads/*:refs/remotes/upstream/*"}) {
		t.Errorf("FetchRefspecs() = %v", got)
	}

	names, err := r.Remotes(ctx)
	if err != nil {
		t.Fatalf("Remotes() error = %v", err)
	}
	if !slices.Equal(names, []string{"upstream"}) {
		t.Errorf("Remotes() = %v, want [upstream]", names)
	}

	if _, err := r.CreateRemote(ctx, "upstream", "https://example.com/other.git"); !errors.Is(err, ErrExists) {
		t.Errorf("CreateRemote(existing) error = %v, want ErrExists", err)
	}
	if _, err := r.FindRemote(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindRemote(nope) error = %v, want ErrNotFound", err)
	}
}

func TestRemoteAnonymous_NotPersisted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)

	rem, err := r.RemoteAnonymous("https://example.com/repo.git", "+refs/heads/*:refs/remotes/anon/*")
	if err != nil {
		t.Fatalf("RemoteAnonymous() error = %v", err)
	}
	if _, ok := rem.Name(); ok {
		t.Error("Name() reported a name for an anonymous remote")
	}
	names, _ := r.Remotes(ctx)
	if len(names) != 0 {
		t.Errorf("Remotes() = %v after RemoteAnonymous, want none", names)
	}
	if _, err := r.RemoteAnonymous("", ""); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("RemoteAnonymous(\"\") error = %v, want ErrInvalidSpec", err)
	}
}

func TestRemote_Fetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src, srcDir := setupTestRepo(t)
	srcHead, _ := src.Head(ctx)
	srcID, _ := srcHead.Target()

	r, _ := initTestRepo(t)
	rem, err := r.CreateRemote(ctx, "origin", srcDir)
	if err != nil {
		t.Fatalf("CreateRemote() error = %v", err)
	}
	if err := rem.Fetch(ctx, nil); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	b, err := r.FindBranch(ctx, "origin/"+srcHead.Shorthand(), BranchRemote)
	if err != nil {
		t.Fatalf("FindBranch() after Fetch error = %v", err)
	}
	if got, _ := b.Reference().Target(); got != srcID {
		t.Errorf("fetched branch = %s, want %s", got, srcID)
	}

	anon, _ := r.RemoteAnonymous(srcDir, "")
	if err := anon.Fetch(ctx, nil); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("anonymous Fetch() without refspecs error = %v, want ErrInvalidSpec", err)
	}
	if err := anon.Fetch(ctx, []string{srcHead.Name() + ":refs/anon/head"}); err != nil {
		t.Fatalf("anonymous Fetch() error = %v", err)
	}
	if id, err := r.RefnameToID(ctx, "refs/anon/head"); err != nil || id != srcID {
		t.Errorf("refs/anon/head = %s, %v, want %s", id, err, srcID)
	}
}
