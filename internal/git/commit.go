package git

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Commit is a loaded commit object.
type Commit struct {
	repo      *Repository
	id        Oid
	tree      Oid
	parents   []Oid
	author    *Signature
	committer *Signature
	message   string
}

// FindCommit loads the commit id.
func (r *Repository) FindCommit(ctx context.Context, id Oid) (*Commit, error) {
	obj, err := r.FindObject(ctx, id, ObjectCommit)
	if err != nil {
		return nil, err
	}
	c, _ := obj.AsCommit()
	return c, nil
}

// parseCommit decodes the raw commit format: header lines, a blank line,
// then the message. Continuation lines (gpgsig, mergetag) start with a
// space and are skipped.
func parseCommit(repo *Repository, id Oid, data []byte) (*Commit, error) {
	c := &Commit{repo: repo, id: id}
	header, message, _ := bytes.Cut(data, []byte("\n\n"))
	c.message = string(message)

	var sawTree bool
	for _, line := range strings.Split(string(header), "\n") {
		if line == "" || line[0] == ' ' {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "tree":
			t, err := ParseOid(value)
			if err != nil {
				return nil, fmt.Errorf("tree header: %w", err)
			}
			c.tree, sawTree = t, true
		case "parent":
			p, err := ParseOid(value)
			if err != nil {
				return nil, fmt.Errorf("parent header: %w", err)
			}
			c.parents = append(c.parents, p)
		case "author":
			s, err := parseSignature(value)
			if err != nil {
				return nil, err
			}
			c.author = s
		case "committer":
			s, err := parseSignature(value)
			if err != nil {
				return nil, err
			}
			c.committer = s
		}
	}
	if !sawTree || c.author == nil || c.committer == nil {
		return nil, fmt.Errorf("incomplete commit header")
	}
	return c, nil
}

// ID returns the commit's content hash.
func (c *Commit) ID() Oid { return c.id }

// TreeID returns the id of the commit's root tree.
func (c *Commit) TreeID() Oid { return c.tree }

// Tree loads the commit's root tree.
func (c *Commit) Tree(ctx context.Context) (*Tree, error) {
	return c.repo.FindTree(ctx, c.tree)
}

// ParentIDs returns the parent ids in order.
func (c *Commit) ParentIDs() []Oid {
	return append([]Oid(nil), c.parents...)
}

// ParentCount returns the number of parents.
func (c *Commit) ParentCount() int { return len(c.parents) }

// Parent loads the i-th parent.
func (c *Commit) Parent(ctx context.Context, i int) (*Commit, error) {
	if i < 0 || i >= len(c.parents) {
		return nil, newError(CodeNotFound, ClassInvalid, "parent %d does not exist", i)
	}
	return c.repo.FindCommit(ctx, c.parents[i])
}

// Author returns a copy of the author signature.
func (c *Commit) Author() Signature { return *c.author }

// Committer returns a copy of the committer signature.
func (c *Commit) Committer() Signature { return *c.committer }

// Message returns the full commit message.
func (c *Commit) Message() string { return c.message }

// Summary returns the first paragraph of the message on one line.
func (c *Commit) Summary() string {
	msg := strings.TrimLeft(c.message, " \t\r\n")
	para, _, _ := strings.Cut(msg, "\n\n")
	return strings.TrimSpace(strings.Join(strings.Fields(para), " "))
}

// CreateCommit writes a commit of tree with the given parents and returns
// its id.
//
// When updateRef is not empty that reference (symbolic ones such as HEAD
// are followed) is moved to the new commit. If the reference already
// exists its current target must be the first parent, otherwise the call
// fails with CodeNonFastForward and nothing is written.
func (r *Repository) CreateCommit(ctx context.Context, updateRef string, author, committer *Signature, message string, tree *Tree, parents []*Commit) (Oid, error) {
	if r.closed {
		return ZeroOid, ErrClosed
	}
	if author == nil || committer == nil {
		return ZeroOid, newError(CodeInvalidSpec, ClassInvalid, "author and committer are required")
	}
	invariant(tree != nil, "CreateCommit called with a nil tree")

	var (
		target  string
		current Oid
		exists  bool
	)
	if updateRef != "" {
		var err error
		target, err = r.resolveSymbolic(ctx, updateRef)
		if err != nil {
			return ZeroOid, err
		}
		current, exists, err = r.lookupDirect(ctx, target)
		if err != nil {
			return ZeroOid, err
		}
		if exists && (len(parents) == 0 || parents[0].id != current) {
			return ZeroOid, newError(CodeNonFastForward, ClassObject,
				"failed to create commit: current tip of '%s' is not the first parent", target)
		}
	}

	args := []string{"commit-tree", "--no-gpg-sign", tree.id.String()}
	for _, p := range parents {
		args = append(args, "-p", p.id.String())
	}
	args = append(args, "-F", "-")
	env := append(authorEnv(author), committerEnv(committer)...)
	out, err := r.run(ctx, invocation{env: env, stdin: strings.NewReader(message)}, args...)
	if err != nil {
		return ZeroOid, err
	}
	id := mustOid(string(out), "commit-tree")

	if target == "" {
		return id, nil
	}
	summary := (&Commit{message: message}).Summary()
	reflog := "commit: " + summary
	if len(parents) == 0 {
		reflog = "commit (initial): " + summary
	}
	old := ZeroOid
	if exists {
		old = current
	}
	if _, err := r.run(ctx, invocation{env: committerEnv(committer)},
		"update-ref", "-m", reflog, target, id.String(), old.String()); err != nil {
		return ZeroOid, err
	}
	return id, nil
}
