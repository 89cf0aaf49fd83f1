package git

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
)

// RepoBuilder collects clone options.
type RepoBuilder struct {
	bare   bool
	branch string
	depth  int
}

// NewRepoBuilder returns a builder for a full, non-bare clone of the
// remote's default branch.
func NewRepoBuilder() *RepoBuilder {
	return &RepoBuilder{}
}

// Bare makes the clone a bare repository.
func (b *RepoBuilder) Bare(bare bool) *RepoBuilder {
	b.bare = bare
	return b
}

// Branch checks out branch instead of the remote's HEAD.
func (b *RepoBuilder) Branch(branch string) *RepoBuilder {
	b.branch = branch
	return b
}

// Depth limits history to depth commits. Zero means full history. Local
// sources need a file:// URL for the limit to apply.
func (b *RepoBuilder) Depth(depth int) *RepoBuilder {
	b.depth = depth
	return b
}

// Clone copies the repository at url into dest and opens it. dest must
// not exist or be an empty directory.
func (b *RepoBuilder) Clone(ctx context.Context, url, dest string) (*Repository, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return nil, newError(CodeNotFound, ClassOS, "failed to resolve path '%s': %v", dest, err)
	}
	if entries, err := os.ReadDir(abs); err == nil && len(entries) > 0 {
		return nil, newError(CodeExists, ClassInvalid, "'%s' exists and is not an empty directory", abs)
	}
	if b.depth < 0 {
		return nil, newError(CodeInvalidSpec, ClassInvalid, "depth %d is negative", b.depth)
	}

	args := []string{"clone", "--quiet"}
	if b.bare {
		args = append(args, "--bare")
	}
	if b.branch != "" {
		args = append(args, "--branch", b.branch)
	}
	if b.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(b.depth))
	}
	args = append(args, "--", url, abs)

	if _, err := runEngine(ctx, "", invocation{}, args...); err != nil {
		return nil, err
	}
	return Open(ctx, abs)
}

// Clone is NewRepoBuilder().Clone.
func Clone(ctx context.Context, url, dest string) (*Repository, error) {
	return NewRepoBuilder().Clone(ctx, url, dest)
}
