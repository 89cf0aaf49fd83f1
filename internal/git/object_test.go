package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateBlob_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := initTestRepo(t)

	data := []byte("hello, world\n")
	id, err := r.CreateBlob(ctx, data)
	if err != nil {
		t.Fatalf("CreateBlob() error = %v", err)
	}
	if id.IsZero() {
		t.Fatal("CreateBlob() returned the zero id")
	}

	blob, err := r.FindBlob(ctx, id)
	if err != nil {
		t.Fatalf("FindBlob() error = %v", err)
	}
	if !bytes.Equal(blob.Content(), data) || blob.Size() != len(data) {
		t.Errorf("Content() = %q (size %d), want %q", blob.Content(), blob.Size(), data)
	}
	if blob.IsBinary() {
		t.Error("IsBinary() = true for text")
	}
}

func TestCreateBlob_Binary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := initTestRepo(t)

	id, err := r.CreateBlob(ctx, []byte{0x89, 'P', 'N', 'G', 0, 1, 2})
	if err != nil {
		t.Fatalf("CreateBlob() error = %v", err)
	}
	blob, err := r.FindBlob(ctx, id)
	if err != nil {
		t.Fatalf("FindBlob() error = %v", err)
	}
	if !blob.IsBinary() {
		t.Error("IsBinary() = false for content with a NUL byte")
	}
}

func TestCreateBlobFromPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, dir := initTestRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello, world\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fromPath, err := r.CreateBlobFromPath(ctx, "file.txt")
	if err != nil {
		t.Fatalf("CreateBlobFromPath() error = %v", err)
	}
	fromData, _ := r.CreateBlob(ctx, []byte("hello, world\n"))
	if fromPath != fromData {
		t.Errorf("CreateBlobFromPath() = %s, CreateBlob() = %s", fromPath, fromData)
	}

	if _, err := r.CreateBlobFromPath(ctx, "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateBlobFromPath(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindObject_KindAndMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)
	c := headCommit(t, r)

	obj, err := r.FindObject(ctx, c.ID(), ObjectAny)
	if err != nil {
		t.Fatalf("FindObject(any) error = %v", err)
	}
	if obj.Kind() != ObjectCommit {
		t.Errorf("Kind() = %v, want commit", obj.Kind())
	}
	if _, ok := obj.AsTree(); ok {
		t.Error("AsTree() succeeded on a commit")
	}

	if _, err := r.FindObject(ctx, c.ID(), ObjectBlob); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindObject(blob) on a commit error = %v, want ErrNotFound", err)
	}
	if _, err := r.FindBlob(ctx, c.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBlob() on a commit error = %v, want ErrNotFound", err)
	}

	missing, _ := ParseOid("0123456789abcdef0123456789abcdef01234567")
	_, err = r.FindCommit(ctx, missing)
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeNotFound || e.Class != ClassObject {
		t.Errorf("FindCommit(missing) error = %v, want not found/object", err)
	}

	// The reader survives a miss.
	if _, err := r.FindCommit(ctx, c.ID()); err != nil {
		t.Errorf("FindCommit() after a miss error = %v", err)
	}
}

func TestObject_PeelAndShortID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, dir := setupTestRepo(t)
	c := headCommit(t, r)
	runGit(t, dir, "tag", "-a", "-m", "release", "v1.0", c.ID().String())

	tag, err := r.RevparseSingle(ctx, "v1.0")
	if err != nil {
		t.Fatalf("RevparseSingle(v1.0) error = %v", err)
	}
	if tag.Kind() != ObjectTag {
		t.Fatalf("Kind() = %v, want tag", tag.Kind())
	}

	peeled, err := tag.Peel(ctx, ObjectAny)
	if err != nil {
		t.Fatalf("Peel(any) error = %v", err)
	}
	if peeled.ID() != c.ID() {
		t.Errorf("Peel(any) = %s, want %s", peeled.ID(), c.ID())
	}

	tree, err := tag.Peel(ctx, ObjectTree)
	if err != nil {
		t.Fatalf("Peel(tree) error = %v", err)
	}
	if tree.ID() != c.TreeID() {
		t.Errorf("Peel(tree) = %s, want %s", tree.ID(), c.TreeID())
	}

	if _, err := tree.Peel(ctx, ObjectCommit); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("tree.Peel(commit) error = %v, want ErrInvalidSpec", err)
	}

	short, err := peeled.ShortID(ctx)
	if err != nil {
		t.Fatalf("ShortID() error = %v", err)
	}
	if len(short) < 4 || c.ID().String()[:len(short)] != short {
		t.Errorf("ShortID() = %q, not a prefix of %s", short, c.ID())
	}
}

func TestTree_Entries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, dir := initTestRepo(t)
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "docs", "guide.md"), []byte("guide\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	runGit(t, dir, "add", "docs/guide.md", "run.sh")
	runGit(t, dir, "update-index", "--chmod=+x", "run.sh")
	treeID, err := r.Index().WriteTree(ctx)
	if err != nil {
		t.Fatalf("WriteTree() error = %v", err)
	}

	tree, err := r.FindTree(ctx, treeID)
	if err != nil {
		t.Fatalf("FindTree() error = %v", err)
	}
	if tree.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tree.Len())
	}
	docs, ok := tree.EntryByName("docs")
	if !ok || docs.Kind != ObjectTree || docs.Mode != ModeTree {
		t.Errorf("EntryByName(docs) = %+v, %v, want a tree", docs, ok)
	}
	run, ok := tree.EntryByName("run.sh")
	if !ok || run.Kind != ObjectBlob || run.Mode != ModeExecutable {
		t.Errorf("EntryByName(run.sh) = %+v, %v, want an executable blob", run, ok)
	}
	if _, ok := tree.EntryByName("missing"); ok {
		t.Error("EntryByName(missing) reported an entry")
	}

	sub, err := tree.Object(ctx, docs)
	if err != nil {
		t.Fatalf("Object(docs) error = %v", err)
	}
	subTree, ok := sub.AsTree()
	if !ok {
		t.Fatal("docs entry is not a tree")
	}
	if _, ok := subTree.EntryByName("guide.md"); !ok {
		t.Error("docs tree has no guide.md")
	}
}

func TestParseTree_Truncated(t *testing.T) {
	t.Parallel()
	if _, err := parseTree(nil, ZeroOid, []byte("100644 file\x00short")); err == nil {
		t.Error("parseTree() accepted a truncated entry")
	}
	if _, err := parseTree(nil, ZeroOid, []byte("nonsense")); err == nil {
		t.Error("parseTree() accepted an entry without a mode")
	}
}

func TestParseObjectType(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"commit", "tree", "blob", "tag", "any"} {
		got, err := ParseObjectType(s)
		if err != nil {
			t.Errorf("ParseObjectType(%q) error = %v", s, err)
			continue
		}
		if got.String() != s {
			t.Errorf("ParseObjectType(%q).String() = %q", s, got.String())
		}
	}
	if _, err := ParseObjectType("blobby"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseObjectType(blobby) error = %v, want ErrInvalidSpec", err)
	}
}
