package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateCommit_AdvancesHead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)

	c1ID, err := r.RefnameToID(ctx, "HEAD")
	if err != nil {
		t.Fatalf("RefnameToID(HEAD) error = %v", err)
	}
	c1, err := r.FindCommit(ctx, c1ID)
	if err != nil {
		t.Fatalf("FindCommit() error = %v", err)
	}

	blob, err := r.CreateBlob(ctx, []byte("second\n"))
	if err != nil {
		t.Fatalf("CreateBlob() error = %v", err)
	}
	if err := r.Index().AddPath(ctx, "README.md"); err != nil {
		t.Fatalf("AddPath() error = %v", err)
	}
	runGit(t, mustWorkdir(t, r), "update-index", "--add", "--cacheinfo", "100644,"+blob.String()+",second.txt")
	tree2ID, err := r.Index().WriteTree(ctx)
	if err != nil {
		t.Fatalf("WriteTree() error = %v", err)
	}
	tree2, err := r.FindTree(ctx, tree2ID)
	if err != nil {
		t.Fatalf("FindTree() error = %v", err)
	}

	sig := testSig(t)
	c2ID, err := r.CreateCommit(ctx, "HEAD", sig, sig, "second", tree2, []*Commit{c1})
	if err != nil {
		t.Fatalf("CreateCommit() error = %v", err)
	}

	c2, err := r.FindCommit(ctx, c2ID)
	if err != nil {
		t.Fatalf("FindCommit(C2) error = %v", err)
	}
	if head, _ := r.RefnameToID(ctx, "HEAD"); head != c2ID {
		t.Errorf("HEAD = %s, want %s", head, c2ID)
	}
	if got := c2.ParentIDs(); len(got) != 1 || got[0] != c1ID {
		t.Errorf("ParentIDs() = %v, want [%s]", got, c1ID)
	}
	if c2.TreeID() != tree2ID {
		t.Errorf("TreeID() = %s, want %s", c2.TreeID(), tree2ID)
	}
	if got := strings.TrimRight(c2.Message(), "\n"); got != "second" {
		t.Errorf("Message() = %q, want %q", got, "second")
	}
	if a := c2.Author(); a.Name != "Test User" || !a.When.Equal(sig.When) {
		t.Errorf("Author() = %+v, want %+v", a, *sig)
	}
	if _, offset := c2.Committer().When.Zone(); offset != 3600 {
		t.Errorf("Committer().When offset = %d, want 3600", offset)
	}

	parent, err := c2.Parent(ctx, 0)
	if err != nil || parent.ID() != c1ID {
		t.Errorf("Parent(0) = %v, %v, want %s", parent, err, c1ID)
	}
	if _, err := c2.Parent(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Parent(1) error = %v, want ErrNotFound", err)
	}

	reflog := runGit(t, mustWorkdir(t, r), "reflog", "-1", "--format=%gs", "HEAD")
	if reflog != "commit: second" {
		t.Errorf("reflog = %q, want %q", reflog, "commit: second")
	}
}

func TestCreateCommit_NonFastForward(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)
	before, _ := r.RefnameToID(ctx, "HEAD")
	head, _ := r.FindCommit(ctx, before)
	tree, err := head.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}

	sig := testSig(t)
	// C0 is a root commit that HEAD does not point at.
	c0ID, err := r.CreateCommit(ctx, "", sig, sig, "unrelated", tree, nil)
	if err != nil {
		t.Fatalf("CreateCommit(no ref) error = %v", err)
	}
	c0, _ := r.FindCommit(ctx, c0ID)

	_, err = r.CreateCommit(ctx, "HEAD", sig, sig, "conflict", tree, []*Commit{c0})
	if !errors.Is(err, ErrNonFastForward) {
		t.Fatalf("CreateCommit() error = %v, want ErrNonFastForward", err)
	}
	if after, _ := r.RefnameToID(ctx, "HEAD"); after != before {
		t.Errorf("HEAD moved to %s, want %s", after, before)
	}
}

func TestCreateCommit_InitialOnUnbornBranch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := initTestRepo(t)

	id := commitFile(t, r, "a.txt", "a\n", "root")

	head, err := r.Head(ctx)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if target, _ := head.Target(); target != id {
		t.Errorf("Head() = %s, want %s", target, id)
	}
	c, _ := r.FindCommit(ctx, id)
	if c.ParentCount() != 0 {
		t.Errorf("ParentCount() = %d, want 0", c.ParentCount())
	}
}

func TestCreateCommit_RequiresSignatures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)
	obj, _ := r.RevparseSingle(ctx, "HEAD^{tree}")
	tree, _ := obj.AsTree()

	if _, err := r.CreateCommit(ctx, "", nil, testSig(t), "msg", tree, nil); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("CreateCommit(nil author) error = %v, want ErrInvalidSpec", err)
	}
}

func TestCommit_Summary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    string
	}{
		{"subject", "subject"},
		{"subject\n\nbody", "subject"},
		{"\n\n  subject\nwrapped\n\nbody", "subject wrapped"},
		{"", ""},
	}
	for _, tt := range tests {
		c := &Commit{message: tt.message}
		if got := c.Summary(); got != tt.want {
			t.Errorf("Summary(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestParseCommit_SkipsContinuationLines(t *testing.T) {
	t.Parallel()
	raw := strings.Join([]string{
		"tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904",
		"parent 1111111111111111111111111111111111111111",
		"author A U Thor <author@example.com> 1700000000 -0230",
		"committer C O Mitter <committer@example.com> 1700000100 +0000",
		"gpgsig -----BEGIN PGP SIGNATURE-----",
		" ",
		" iQEzBAABCAAdFiEE",
		" -----END PGP SIGNATURE-----",
		"",
		"signed commit",
		"",
	}, "\n")

	c, err := parseCommit(nil, ZeroOid, []byte(raw))
	if err != nil {
		t.Fatalf("parseCommit() error = %v", err)
	}
	if c.Author().Email != "author@example.com" {
		t.Errorf("Author().Email = %q", c.Author().Email)
	}
	if _, offset := c.Author().When.Zone(); offset != -(2*3600 + 30*60) {
		t.Errorf("Author() offset = %d, want -9000", offset)
	}
	if c.Message() != "signed commit\n" {
		t.Errorf("Message() = %q", c.Message())
	}
	if len(c.ParentIDs()) != 1 {
		t.Errorf("ParentIDs() = %v, want one parent", c.ParentIDs())
	}
}

func TestParseCommit_Incomplete(t *testing.T) {
	t.Parallel()
	if _, err := parseCommit(nil, ZeroOid, []byte("author x <y> 1 +0000\n\nmsg")); err == nil {
		t.Error("parseCommit() accepted a commit without a tree")
	}
}

func mustWorkdir(t *testing.T, r *Repository) string {
	t.Helper()
	wd, ok := r.Workdir()
	if !ok {
		t.Fatal("repository has no work tree")
	}
	return wd
}

// writeRawCommit stores body as a commit object without validating it.
func writeRawCommit(t *testing.T, r *Repository, body string) Oid {
	t.Helper()
	path := filepath.Join(resolveTempDir(t), "commit.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	id, err := ParseOid(runGit(t, mustWorkdir(t, r), "hash-object", "-t", "commit", "--literally", "-w", path))
	if err != nil {
		t.Fatalf("ParseOid() error = %v", err)
	}
	return id
}

func TestFindCommit_SignatureWithoutZone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)
	head := headCommit(t, r)

	id := writeRawCommit(t, r, "tree "+head.TreeID().String()+"\n"+
		"author Old Timer <old@example.com> 1112911993\n"+
		"committer Old Timer <old@example.com> 1112911993 +05030\n"+
		"\nearly history\n")

	c, err := r.FindCommit(ctx, id)
	if err != nil {
		t.Fatalf("FindCommit() error = %v", err)
	}
	if got := c.Author(); got.Name != "Old Timer" || got.When.Unix() != 1112911993 {
		t.Errorf("Author() = %+v", got)
	}
	if _, off := c.Committer().When.Zone(); off != 0 {
		t.Errorf("Committer() zone offset = %d, want UTC", off)
	}

	obj, err := r.RevparseSingle(ctx, id.String())
	if err != nil {
		t.Fatalf("RevparseSingle() error = %v", err)
	}
	if c, ok := obj.AsCommit(); !ok || c.Summary() != "early history" {
		t.Errorf("AsCommit() = %v, %v", c, ok)
	}
}

func TestFindCommit_UndecodableIsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r, _ := setupTestRepo(t)

	id := writeRawCommit(t, r, "author A <a@b> 1 +0000\ncommitter A <a@b> 1 +0000\n\nno tree\n")

	_, err := r.FindCommit(ctx, id)
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Code != CodeGeneric || gerr.Class != ClassObject {
		t.Errorf("FindCommit() error = %v, want a generic object error", err)
	}
}
