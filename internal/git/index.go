package git

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

// Index is the repository's staging area.
type Index struct {
	repo *Repository
}

// IndexEntry is one staged path.
type IndexEntry struct {
	Path  string
	Mode  uint32
	ID    Oid
	Stage int
}

// Index returns the repository's index.
func (r *Repository) Index() *Index {
	return &Index{repo: r}
}

// Path returns the index file location.
func (ix *Index) Path() string {
	return filepath.Join(ix.repo.gitDir, "index")
}

// Entries lists the staged paths in index order. Conflicted paths appear
// once per stage.
func (ix *Index) Entries(ctx context.Context) ([]IndexEntry, error) {
	recs, err := ix.repo.gitNUL(ctx, "ls-files", "--stage", "-z")
	if err != nil {
		return nil, err
	}
	entries := make([]IndexEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, parseIndexEntry(rec))
	}
	return entries, nil
}

// parseIndexEntry reads "<mode> <id> <stage>\t<path>".
func parseIndexEntry(rec string) IndexEntry {
	meta, path, ok := strings.Cut(rec, "\t")
	invariant(ok, "ls-files --stage printed %q", rec)
	fields := strings.Fields(meta)
	invariant(len(fields) == 3, "ls-files --stage printed %q", rec)
	mode, err := strconv.ParseUint(fields[0], 8, 32)
	invariant(err == nil, "ls-files --stage mode %q", fields[0])
	stage, err := strconv.Atoi(fields[2])
	invariant(err == nil, "ls-files --stage stage %q", fields[2])
	return IndexEntry{Path: path, Mode: uint32(mode), ID: mustOid(fields[1], "ls-files --stage"), Stage: stage}
}

// Len returns the number of entries.
func (ix *Index) Len(ctx context.Context) (int, error) {
	entries, err := ix.Entries(ctx)
	return len(entries), err
}

// AddPath stages the work tree file at path, relative to the work tree.
func (ix *Index) AddPath(ctx context.Context, path string) error {
	if ix.repo.bare {
		return newError(CodeBareRepo, ClassIndex, "cannot add '%s': repository has no work tree", path)
	}
	_, err := ix.repo.git(ctx, "update-index", "--add", "--", path)
	return err
}

// RemovePath unstages path. The work tree file is left alone.
func (ix *Index) RemovePath(ctx context.Context, path string) error {
	_, err := ix.repo.git(ctx, "update-index", "--force-remove", "--", path)
	return err
}

// WriteTree writes the index as a tree and returns its id. Unmerged
// entries fail with CodeUnmerged.
func (ix *Index) WriteTree(ctx context.Context) (Oid, error) {
	out, err := ix.repo.gitString(ctx, "write-tree")
	if err != nil {
		return ZeroOid, err
	}
	return mustOid(out, "write-tree"), nil
}

// ReadTree replaces the index content with tree.
func (ix *Index) ReadTree(ctx context.Context, tree *Tree) error {
	_, err := ix.repo.git(ctx, "read-tree", tree.id.String())
	return err
}
