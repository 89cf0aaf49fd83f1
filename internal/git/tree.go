package git

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
)

// Tree is a directory listing in the object database.
type Tree struct {
	repo    *Repository
	id      Oid
	entries []TreeEntry
}

// TreeEntry is one named child of a tree.
type TreeEntry struct {
	Name string
	Mode uint32
	ID   Oid
	Kind ObjectType
}

// Tree entry modes the engine writes.
const (
	ModeTree       uint32 = 0o040000
	ModeBlob       uint32 = 0o100644
	ModeExecutable uint32 = 0o100755
	ModeSymlink    uint32 = 0o120000
	ModeGitlink    uint32 = 0o160000
)

// FindTree loads the tree id.
func (r *Repository) FindTree(ctx context.Context, id Oid) (*Tree, error) {
	obj, err := r.FindObject(ctx, id, ObjectTree)
	if err != nil {
		return nil, err
	}
	t, _ := obj.AsTree()
	return t, nil
}

// parseTree decodes the raw tree format: repeated "<octal mode> <name>\0"
// followed by a raw id.
func parseTree(repo *Repository, id Oid, data []byte) (*Tree, error) {
	t := &Tree{repo: repo, id: id}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("entry %d: missing mode", len(t.entries))
		}
		mode, err := strconv.ParseUint(string(data[:sp]), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("entry %d: bad mode %q", len(t.entries), data[:sp])
		}
		data = data[sp+1:]

		nul := bytes.IndexByte(data, 0)
		if nul < 0 || len(data) < nul+1+OidSize {
			return nil, fmt.Errorf("entry %d: truncated", len(t.entries))
		}
		e := TreeEntry{Name: string(data[:nul]), Mode: uint32(mode)}
		copy(e.ID[:], data[nul+1:nul+1+OidSize])
		e.Kind = kindForMode(e.Mode)
		t.entries = append(t.entries, e)
		data = data[nul+1+OidSize:]
	}
	return t, nil
}

func kindForMode(mode uint32) ObjectType {
	switch mode & 0o170000 {
	case ModeTree:
		return ObjectTree
	case ModeGitlink:
		return ObjectCommit
	default:
		return ObjectBlob
	}
}

// ID returns the tree's content hash.
func (t *Tree) ID() Oid { return t.id }

// Len returns the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

// Entries returns the entries in stored order.
func (t *Tree) Entries() []TreeEntry {
	return append([]TreeEntry(nil), t.entries...)
}

// EntryByName returns the direct child called name.
func (t *Tree) EntryByName(name string) (TreeEntry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// Object loads the object an entry points at. Gitlink entries point into
// another repository and are reported as not found.
func (t *Tree) Object(ctx context.Context, e TreeEntry) (*Object, error) {
	if e.Mode == ModeGitlink {
		return nil, newError(CodeNotFound, ClassTree, "entry '%s' is a submodule commit", e.Name)
	}
	return t.repo.FindObject(ctx, e.ID, e.Kind)
}
