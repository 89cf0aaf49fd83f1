package git

import (
	"bytes"
	"context"
	"iter"
	"strings"

	"github.com/raphi011/gitkit/internal/cmd"
)

// ReferenceType says whether a reference stores an id or another name.
type ReferenceType int

const (
	ReferenceDirect ReferenceType = iota + 1
	ReferenceSymbolic
)

func (t ReferenceType) String() string {
	if t == ReferenceSymbolic {
		return "symbolic"
	}
	return "direct"
}

// Reference is a named pointer to an object or to another reference.
type Reference struct {
	repo   *Repository
	name   string
	kind   ReferenceType
	target Oid    // direct target, or the resolved id of a symbolic ref when known
	symref string // symbolic target
}

// Name returns the full name, e.g. "refs/heads/main".
func (r *Reference) Name() string { return r.name }

// Kind reports whether the reference is direct or symbolic.
func (r *Reference) Kind() ReferenceType { return r.kind }

// Shorthand returns the name without its well-known prefix.
func (r *Reference) Shorthand() string {
	for _, prefix := range []string{"refs/heads/", "refs/tags/", "refs/remotes/", "refs/"} {
		if s, ok := strings.CutPrefix(r.name, prefix); ok {
			return s
		}
	}
	return r.name
}

// Target returns the id a direct reference points at.
func (r *Reference) Target() (Oid, bool) {
	if r.kind != ReferenceDirect {
		return ZeroOid, false
	}
	return r.target, true
}

// SymbolicTarget returns the name a symbolic reference points at.
func (r *Reference) SymbolicTarget() (string, bool) {
	if r.kind != ReferenceSymbolic {
		return "", false
	}
	return r.symref, true
}

// IsBranch reports whether the reference is a local branch.
func (r *Reference) IsBranch() bool { return strings.HasPrefix(r.name, "refs/heads/") }

// IsRemote reports whether the reference is a remote-tracking branch.
func (r *Reference) IsRemote() bool { return strings.HasPrefix(r.name, "refs/remotes/") }

// IsTag reports whether the reference is a tag.
func (r *Reference) IsTag() bool { return strings.HasPrefix(r.name, "refs/tags/") }

// Resolve follows symbolic references until a direct one is reached.
func (r *Reference) Resolve(ctx context.Context) (*Reference, error) {
	ref := r
	for depth := 0; ref.kind == ReferenceSymbolic; depth++ {
		if depth >= maxSymbolicDepth {
			return nil, newError(CodeNotFound, ClassReference, "cannot resolve reference (>%d levels deep)", maxSymbolicDepth)
		}
		next, err := r.repo.FindReference(ctx, ref.symref)
		if err != nil {
			return nil, err
		}
		ref = next
	}
	return ref, nil
}

// Peel resolves the reference and peels its target to kind.
func (r *Reference) Peel(ctx context.Context, kind ObjectType) (*Object, error) {
	direct, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	obj, err := r.repo.FindObject(ctx, direct.target, ObjectAny)
	if err != nil {
		return nil, err
	}
	if kind == obj.kind {
		return obj, nil
	}
	return obj.Peel(ctx, kind)
}

// Delete removes the reference. A direct reference is only removed while
// it still points where this handle saw it.
func (r *Reference) Delete(ctx context.Context) error {
	args := []string{"update-ref", "--no-deref", "-d", r.name}
	if r.kind == ReferenceDirect {
		args = append(args, r.target.String())
	}
	_, err := r.repo.git(ctx, args...)
	return err
}

const maxSymbolicDepth = 5

// validateRefName accepts the all-caps one-level names (HEAD, FETCH_HEAD,
// ...) and anything under refs/ the engine's format check allows.
func (r *Repository) validateRefName(ctx context.Context, name string) error {
	if isOneLevelSpecial(name) {
		return nil
	}
	if strings.HasPrefix(name, "refs/") {
		if _, err := r.git(ctx, "check-ref-format", name); err == nil {
			return nil
		} else if IsCode(err, CodeClosed) {
			return err
		}
	}
	return newError(CodeInvalidSpec, ClassReference, "the given reference name '%s' is not valid", name)
}

func isOneLevelSpecial(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if (c < 'A' || c > 'Z') && c != '_' {
			return false
		}
	}
	return true
}

// symbolicTarget returns the target of name when it is a symbolic
// reference.
func (r *Repository) symbolicTarget(ctx context.Context, name string) (string, bool, error) {
	out, err := r.gitString(ctx, "symbolic-ref", "-q", name)
	if err != nil {
		if IsCode(err, CodeGeneric) || IsCode(err, CodeNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return out, true, nil
}

// resolveSymbolic follows symbolic references from name and returns the
// direct reference name at the end of the chain. The direct reference
// need not exist yet.
func (r *Repository) resolveSymbolic(ctx context.Context, name string) (string, error) {
	for depth := 0; depth < maxSymbolicDepth; depth++ {
		target, ok, err := r.symbolicTarget(ctx, name)
		if err != nil {
			return "", err
		}
		if !ok {
			return name, nil
		}
		name = target
	}
	return "", newError(CodeNotFound, ClassReference, "cannot resolve reference (>%d levels deep)", maxSymbolicDepth)
}

// lookupDirect reads the id stored in a fully qualified reference.
func (r *Repository) lookupDirect(ctx context.Context, name string) (Oid, bool, error) {
	if strings.HasPrefix(name, "-") {
		return ZeroOid, false, nil
	}
	out, err := r.gitString(ctx, "rev-parse", "--verify", "--quiet", name)
	if err != nil {
		if IsCode(err, CodeGeneric) || IsCode(err, CodeNotFound) {
			return ZeroOid, false, nil
		}
		return ZeroOid, false, err
	}
	return mustOid(out, "rev-parse --verify "+name), true, nil
}

// Head returns the reference HEAD points at, resolved to a direct
// reference. A detached HEAD is returned as the direct reference "HEAD".
func (r *Repository) Head(ctx context.Context) (*Reference, error) {
	name, err := r.resolveSymbolic(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	id, ok, err := r.lookupDirect(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(CodeUnbornBranch, ClassReference, "reference '%s' not found", name)
	}
	return &Reference{repo: r, name: name, kind: ReferenceDirect, target: id}, nil
}

// FindReference looks a reference up by its full name.
func (r *Repository) FindReference(ctx context.Context, name string) (*Reference, error) {
	if err := r.validateRefName(ctx, name); err != nil {
		return nil, err
	}
	if target, ok, err := r.symbolicTarget(ctx, name); err != nil {
		return nil, err
	} else if ok {
		return &Reference{repo: r, name: name, kind: ReferenceSymbolic, symref: target}, nil
	}
	id, ok, err := r.lookupDirect(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(CodeNotFound, ClassReference, "reference '%s' not found", name)
	}
	return &Reference{repo: r, name: name, kind: ReferenceDirect, target: id}, nil
}

// RefnameToID resolves a reference by full name straight to an id.
func (r *Repository) RefnameToID(ctx context.Context, name string) (Oid, error) {
	if err := r.validateRefName(ctx, name); err != nil {
		return ZeroOid, err
	}
	id, ok, err := r.lookupDirect(ctx, name)
	if err != nil {
		return ZeroOid, err
	}
	if !ok {
		return ZeroOid, newError(CodeNotFound, ClassReference, "reference '%s' not found", name)
	}
	return id, nil
}

// CreateReference creates a direct reference. Without force an existing
// name fails with CodeExists. sig and msg go to the reflog.
func (r *Repository) CreateReference(ctx context.Context, name string, id Oid, force bool, sig *Signature, msg string) (*Reference, error) {
	if err := r.validateRefName(ctx, name); err != nil {
		return nil, err
	}
	args := []string{"update-ref", "--no-deref"}
	if msg != "" {
		args = append(args, "-m", msg)
	}
	args = append(args, name, id.String())
	if !force {
		args = append(args, ZeroOid.String())
	}
	if _, err := r.run(ctx, invocation{env: committerEnv(sig)}, args...); err != nil {
		if IsCode(err, CodeExists) {
			return nil, newError(CodeExists, ClassReference,
				"failed to write reference '%s': a reference with that name already exists", name)
		}
		return nil, err
	}
	return &Reference{repo: r, name: name, kind: ReferenceDirect, target: id}, nil
}

// CreateSymbolicReference creates a reference that points at target.
// Without force an existing name fails with CodeExists.
func (r *Repository) CreateSymbolicReference(ctx context.Context, name, target string, force bool, sig *Signature, msg string) (*Reference, error) {
	if err := r.validateRefName(ctx, name); err != nil {
		return nil, err
	}
	if err := r.validateRefName(ctx, target); err != nil {
		return nil, err
	}
	if !force {
		if _, err := r.FindReference(ctx, name); err == nil {
			return nil, newError(CodeExists, ClassReference,
				"failed to write reference '%s': a reference with that name already exists", name)
		} else if !IsCode(err, CodeNotFound) {
			return nil, err
		}
	}
	args := []string{"symbolic-ref"}
	if msg != "" {
		args = append(args, "-m", msg)
	}
	args = append(args, name, target)
	if _, err := r.run(ctx, invocation{env: committerEnv(sig)}, args...); err != nil {
		return nil, err
	}
	return &Reference{repo: r, name: name, kind: ReferenceSymbolic, symref: target}, nil
}

// refFormat prints name, id and symbolic target separated by NUL.
const refFormat = "--format=%(refname)%00%(objectname)%00%(symref)"

// refCursor is the shared single-pass cursor over a for-each-ref process.
type refCursor struct {
	repo   *Repository
	stream *cmd.Stream
	cur    *Reference
	err    error
	done   bool
}

func (r *Repository) newRefCursor(ctx context.Context, patterns ...string) (*refCursor, error) {
	args := append([]string{"for-each-ref", refFormat}, patterns...)
	s, err := r.stream(ctx, args...)
	if err != nil {
		return nil, err
	}
	return &refCursor{repo: r, stream: s}, nil
}

func (c *refCursor) next() bool {
	if c.done {
		return false
	}
	if c.repo.closed {
		c.err = ErrClosed
		c.close()
		return false
	}
	if !c.stream.Next() {
		if err := c.stream.Err(); err != nil {
			c.err = translate([]string{"for-each-ref"}, err)
		}
		c.close()
		return false
	}
	c.cur = parseRefLine(c.repo, c.stream.Line())
	return true
}

func (c *refCursor) close() {
	if c.done {
		return
	}
	c.done = true
	c.cur = nil
	_ = c.stream.Close()
}

func parseRefLine(repo *Repository, line []byte) *Reference {
	fields := bytes.Split(line, []byte{0})
	invariant(len(fields) == 3, "for-each-ref printed %q", line)
	ref := &Reference{repo: repo, name: string(fields[0]), kind: ReferenceDirect}
	if len(fields[2]) > 0 {
		ref.kind = ReferenceSymbolic
		ref.symref = string(fields[2])
	}
	if len(fields[1]) > 0 {
		ref.target = mustOid(string(fields[1]), "for-each-ref")
	}
	return ref
}

// ReferenceIterator walks references once. A second walk needs a new
// iterator from the repository.
type ReferenceIterator struct {
	c *refCursor
}

// References iterates over every reference under refs/.
func (r *Repository) References(ctx context.Context) (*ReferenceIterator, error) {
	c, err := r.newRefCursor(ctx)
	if err != nil {
		return nil, err
	}
	return &ReferenceIterator{c: c}, nil
}

// ReferencesGlob iterates over the references whose full name matches
// glob, e.g. "refs/tags/v1.*".
func (r *Repository) ReferencesGlob(ctx context.Context, glob string) (*ReferenceIterator, error) {
	c, err := r.newRefCursor(ctx, glob)
	if err != nil {
		return nil, err
	}
	return &ReferenceIterator{c: c}, nil
}

// Next advances the iterator. It returns false when the references are
// exhausted or an error occurred; check Err.
func (it *ReferenceIterator) Next() bool { return it.c.next() }

// Reference returns the current reference.
func (it *ReferenceIterator) Reference() *Reference { return it.c.cur }

// Err returns the error that stopped the iteration, if any.
func (it *ReferenceIterator) Err() error { return it.c.err }

// Close stops the iteration early. Safe to call repeatedly.
func (it *ReferenceIterator) Close() error {
	it.c.close()
	return nil
}

// All adapts the iterator to a range-over-func sequence. It consumes the
// iterator; an error is yielded once as the final pair.
func (it *ReferenceIterator) All() iter.Seq2[*Reference, error] {
	return func(yield func(*Reference, error) bool) {
		defer it.Close()
		for it.Next() {
			if !yield(it.Reference(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}
