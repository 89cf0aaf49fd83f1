package git

import (
	"context"
	"fmt"
	"iter"
	"strings"
)

// BranchType separates local branches from remote-tracking ones.
type BranchType int

const (
	BranchLocal BranchType = iota + 1
	BranchRemote
)

func (t BranchType) String() string {
	switch t {
	case BranchLocal:
		return "local"
	case BranchRemote:
		return "remote"
	default:
		return fmt.Sprintf("branchtype(%d)", int(t))
	}
}

// ParseBranchType accepts "local" and "remote".
func ParseBranchType(s string) (BranchType, error) {
	switch s {
	case "local":
		return BranchLocal, nil
	case "remote":
		return BranchRemote, nil
	}
	return 0, newError(CodeInvalidSpec, ClassInvalid, "invalid branch type '%s'", s)
}

func (t BranchType) prefix() string {
	if t == BranchRemote {
		return "refs/remotes/"
	}
	return "refs/heads/"
}

// Branch is a reference under refs/heads or refs/remotes. It wraps the
// Reference it was built from.
type Branch struct {
	ref  *Reference
	kind BranchType
}

func branchFromReference(ref *Reference) *Branch {
	kind := BranchLocal
	if ref.IsRemote() {
		kind = BranchRemote
	}
	return &Branch{ref: ref, kind: kind}
}

// Name returns the branch name without its refs/ prefix, e.g. "main" or
// "origin/main".
func (b *Branch) Name() string { return b.ref.Shorthand() }

// Kind reports whether the branch is local or remote-tracking.
func (b *Branch) Kind() BranchType { return b.kind }

// Reference returns the wrapped reference.
func (b *Branch) Reference() *Reference { return b.ref }

// IsHead reports whether HEAD points at this branch.
func (b *Branch) IsHead(ctx context.Context) (bool, error) {
	if b.kind != BranchLocal {
		return false, nil
	}
	name, err := b.ref.repo.resolveSymbolic(ctx, "HEAD")
	if err != nil {
		return false, err
	}
	return name == b.ref.name, nil
}

// Upstream returns the branch this local branch tracks.
func (b *Branch) Upstream(ctx context.Context) (*Branch, error) {
	if b.kind != BranchLocal {
		return nil, newError(CodeInvalidSpec, ClassInvalid, "reference '%s' is not a local branch", b.ref.name)
	}
	name, err := b.ref.repo.gitString(ctx, "for-each-ref", "--format=%(upstream)", b.ref.name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, newError(CodeNotFound, ClassConfig, "branch '%s' does not have an upstream", b.Name())
	}
	ref, err := b.ref.repo.FindReference(ctx, name)
	if err != nil {
		return nil, err
	}
	return branchFromReference(ref), nil
}

// Delete removes the branch. The branch HEAD points at cannot be deleted.
func (b *Branch) Delete(ctx context.Context) error {
	head, err := b.IsHead(ctx)
	if err != nil {
		return err
	}
	if head {
		return newError(CodeGeneric, ClassReference,
			"cannot delete branch '%s' as it is the current HEAD of the repository", b.Name())
	}
	return b.ref.Delete(ctx)
}

// CreateBranch creates a local branch at target. Without force an existing
// branch fails with CodeExists. The branch HEAD points at cannot be
// force-moved in a repository with a work tree.
func (r *Repository) CreateBranch(ctx context.Context, name string, target *Commit, force bool, sig *Signature, msg string) (*Branch, error) {
	invariant(target != nil, "CreateBranch called with a nil target")
	full := "refs/heads/" + name
	if name == "HEAD" || strings.HasPrefix(name, "-") {
		return nil, newError(CodeInvalidSpec, ClassReference, "'%s' is not a valid branch name", name)
	}
	if err := r.validateRefName(ctx, full); err != nil {
		return nil, newError(CodeInvalidSpec, ClassReference, "'%s' is not a valid branch name", name)
	}

	if force && !r.bare {
		current, err := r.resolveSymbolic(ctx, "HEAD")
		if err != nil {
			return nil, err
		}
		if current == full {
			return nil, newError(CodeGeneric, ClassReference,
				"cannot force update branch '%s' as it is the current HEAD of the repository", name)
		}
	}

	if msg == "" {
		msg = "branch: Created from " + target.id.String()
	}
	ref, err := r.CreateReference(ctx, full, target.id, force, sig, msg)
	if err != nil {
		return nil, err
	}
	return &Branch{ref: ref, kind: BranchLocal}, nil
}

// FindBranch looks up a branch by its short name, e.g. "main" for a local
// branch or "origin/main" for a remote-tracking one.
func (r *Repository) FindBranch(ctx context.Context, name string, kind BranchType) (*Branch, error) {
	ref, err := r.FindReference(ctx, kind.prefix()+name)
	if err != nil {
		if IsCode(err, CodeNotFound) || IsCode(err, CodeInvalidSpec) {
			what := "local branch"
			if kind == BranchRemote {
				what = "remote-tracking branch"
			}
			return nil, newError(CodeNotFound, ClassReference, "cannot locate %s '%s'", what, name)
		}
		return nil, err
	}
	return &Branch{ref: ref, kind: kind}, nil
}

// BranchIterator walks branches once. A second walk needs a new iterator.
type BranchIterator struct {
	c *refCursor
}

// Branches iterates over local branches, remote-tracking branches, or
// both when filter is nil.
func (r *Repository) Branches(ctx context.Context, filter *BranchType) (*BranchIterator, error) {
	patterns := []string{"refs/heads/", "refs/remotes/"}
	if filter != nil {
		patterns = []string{filter.prefix()}
	}
	c, err := r.newRefCursor(ctx, patterns...)
	if err != nil {
		return nil, err
	}
	return &BranchIterator{c: c}, nil
}

// Next advances the iterator. It returns false when the branches are
// exhausted or an error occurred; check Err.
func (it *BranchIterator) Next() bool { return it.c.next() }

// Branch returns the current branch and its type.
func (it *BranchIterator) Branch() (*Branch, BranchType) {
	if it.c.cur == nil {
		return nil, 0
	}
	b := branchFromReference(it.c.cur)
	return b, b.kind
}

// Err returns the error that stopped the iteration, if any.
func (it *BranchIterator) Err() error { return it.c.err }

// Close stops the iteration early. Safe to call repeatedly.
func (it *BranchIterator) Close() error {
	it.c.close()
	return nil
}

// All adapts the iterator to a range-over-func sequence. It consumes the
// iterator; an error is yielded once as the final pair.
func (it *BranchIterator) All() iter.Seq2[*Branch, error] {
	return func(yield func(*Branch, error) bool) {
		defer it.Close()
		for it.Next() {
			b, _ := it.Branch()
			if !yield(b, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}
