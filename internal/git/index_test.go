package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestIndex_AddWriteRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, dir := initTestRepo(t)
	ix := r.Index()

	if got, want := ix.Path(), filepath.Join(dir, ".git", "index"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if n, err := ix.Len(ctx); err != nil || n != 0 {
		t.Errorf("Len() = %d, %v, want 0", n, err)
	}

	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ix.AddPath(ctx, name); err != nil {
			t.Fatalf("AddPath(%s) error = %v", name, err)
		}
	}

	entries, err := ix.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Path != "a.txt" || entries[1].Path != "b.txt" {
		t.Fatalf("Entries() = %+v, want a.txt and b.txt", entries)
	}
	if entries[0].Mode != ModeBlob || entries[0].Stage != 0 {
		t.Errorf("entry = %+v, want mode 100644 stage 0", entries[0])
	}

	full, err := ix.WriteTree(ctx)
	if err != nil {
		t.Fatalf("WriteTree() error = %v", err)
	}

	if err := ix.RemovePath(ctx, "b.txt"); err != nil {
		t.Fatalf("RemovePath() error = %v", err)
	}
	if n, _ := ix.Len(ctx); n != 1 {
		t.Errorf("Len() after RemovePath = %d, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.txt")); err != nil {
		t.Errorf("RemovePath() removed the work tree file: %v", err)
	}

	tree, err := r.FindTree(ctx, full)
	if err != nil {
		t.Fatalf("FindTree() error = %v", err)
	}
	if err := ix.ReadTree(ctx, tree); err != nil {
		t.Fatalf("ReadTree() error = %v", err)
	}
	if n, _ := ix.Len(ctx); n != 2 {
		t.Errorf("Len() after ReadTree = %d, want 2", n)
	}
}

func TestIndex_AddPathMissingFile(t *testing.T) {
	t.Parallel()
	r, _ := initTestRepo(t)
	if err := r.Index().AddPath(context.Background(), "missing.txt"); err == nil {
		t.Error("AddPath() staged a file that does not exist")
	}
}

func TestIndex_BareAddPath(t *testing.T) {
	t.Parallel()
	r, err := InitBare(context.Background(), resolveTempDir(t))
	if err != nil {
		t.Fatalf("InitBare() error = %v", err)
	}
	defer r.Close()

	if err := r.Index().AddPath(context.Background(), "a.txt"); !errors.Is(err, ErrBareRepo) {
		t.Errorf("AddPath() on bare error = %v, want ErrBareRepo", err)
	}
}

func TestParseIndexEntry(t *testing.T) {
	t.Parallel()
	e := parseIndexEntry("160000 1111111111111111111111111111111111111111 0\tlibs/sub")
	if e.Path != "libs/sub" || e.Mode != ModeGitlink || e.Stage != 0 {
		t.Errorf("parseIndexEntry() = %+v", e)
	}
	e = parseIndexEntry("100644 2222222222222222222222222222222222222222 2\tname with\ttab")
	if e.Path != "name with\ttab" || e.Stage != 2 {
		t.Errorf("parseIndexEntry() = %+v", e)
	}
}
