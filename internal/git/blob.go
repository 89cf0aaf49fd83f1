package git

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
)

// Blob is file content stored in the object database.
type Blob struct {
	repo *Repository
	id   Oid
	data []byte
}

// CreateBlob writes data as a new blob and returns its id. Content is
// stored as given; no filters run.
func (r *Repository) CreateBlob(ctx context.Context, data []byte) (Oid, error) {
	out, err := r.run(ctx, invocation{stdin: bytes.NewReader(data)},
		"hash-object", "-w", "--no-filters", "--stdin")
	if err != nil {
		return ZeroOid, err
	}
	return mustOid(string(out), "hash-object --stdin"), nil
}

// CreateBlobFromPath writes the content of the file at path as a new blob.
// Relative paths are taken relative to the work tree.
func (r *Repository) CreateBlobFromPath(ctx context.Context, path string) (Oid, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir(), path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return ZeroOid, newError(CodeNotFound, ClassOS, "failed to stat '%s': %v", path, err)
	}
	if info.IsDir() {
		return ZeroOid, newError(CodeInvalidSpec, ClassOS, "'%s' is a directory", path)
	}
	out, err := r.git(ctx, "hash-object", "-w", "--no-filters", "--", path)
	if err != nil {
		return ZeroOid, err
	}
	return mustOid(string(out), "hash-object"), nil
}

// FindBlob loads the blob id.
func (r *Repository) FindBlob(ctx context.Context, id Oid) (*Blob, error) {
	obj, err := r.FindObject(ctx, id, ObjectBlob)
	if err != nil {
		return nil, err
	}
	b, _ := obj.AsBlob()
	return b, nil
}

// ID returns the blob's content hash.
func (b *Blob) ID() Oid { return b.id }

// Content returns the raw bytes. The slice is shared; do not modify it.
func (b *Blob) Content() []byte { return b.data }

// Size returns the content length in bytes.
func (b *Blob) Size() int { return len(b.data) }

// IsBinary applies the engine's heuristic: a NUL byte in the first 8000
// bytes.
func (b *Blob) IsBinary() bool {
	head := b.data
	if len(head) > 8000 {
		head = head[:8000]
	}
	return bytes.IndexByte(head, 0) >= 0
}
