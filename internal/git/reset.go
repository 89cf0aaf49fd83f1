package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ResetType selects how much of the repository a reset rewrites.
type ResetType int

const (
	// ResetSoft moves HEAD only.
	ResetSoft ResetType = iota + 1
	// ResetMixed also replaces the index with the target tree.
	ResetMixed
	// ResetHard also replaces tracked work tree files. Untracked and
	// ignored files are left alone.
	ResetHard
)

func (t ResetType) String() string {
	switch t {
	case ResetSoft:
		return "soft"
	case ResetMixed:
		return "mixed"
	case ResetHard:
		return "hard"
	default:
		return fmt.Sprintf("reset(%d)", int(t))
	}
}

// ParseResetType accepts "soft", "mixed" and "hard".
func ParseResetType(s string) (ResetType, error) {
	switch s {
	case "soft":
		return ResetSoft, nil
	case "mixed":
		return ResetMixed, nil
	case "hard":
		return ResetHard, nil
	}
	return 0, newError(CodeInvalidSpec, ClassInvalid, "invalid reset type '%s'", s)
}

// peelToCommit accepts a commit, or a tag that peels to one.
func peelToCommit(ctx context.Context, target *Object) (*Object, error) {
	if target.kind == ObjectCommit {
		return target, nil
	}
	return target.Peel(ctx, ObjectCommit)
}

// branchStateFiles are the control files of an interrupted merge,
// cherry-pick or revert. A mixed or hard reset drops them.
var branchStateFiles = []string{
	"MERGE_HEAD", "MERGE_MSG", "MERGE_MODE", "MERGE_RR", "AUTO_MERGE",
	"SQUASH_MSG", "CHERRY_PICK_HEAD", "REVERT_HEAD",
}

// Reset moves HEAD to target and, depending on kind, resyncs the index
// and the work tree. sig and msg identify the reflog entry; nil and ""
// fall back to the configured identity and "reset: moving to <id>".
func (r *Repository) Reset(ctx context.Context, target *Object, kind ResetType, sig *Signature, msg string) error {
	invariant(target != nil, "Reset called with a nil target")
	if r.closed {
		return ErrClosed
	}
	if r.bare && kind != ResetSoft {
		return newError(CodeBareRepo, ClassObject, "%s reset is not allowed in a bare repository", kind)
	}
	if kind == ResetSoft && r.State() == StateMerge {
		return newError(CodeUnmerged, ClassObject, "cannot do a soft reset in the middle of a merge")
	}
	commit, err := peelToCommit(ctx, target)
	if err != nil {
		return err
	}
	id := commit.id.String()

	switch kind {
	case ResetMixed:
		_, err = r.git(ctx, "read-tree", "--reset", id)
	case ResetHard:
		_, err = r.git(ctx, "read-tree", "--reset", "-u", id)
	}
	if err != nil {
		return err
	}
	if kind != ResetSoft {
		// Only stat data is refreshed; entries that differ stay as they are.
		_, _ = r.git(ctx, "update-index", "-q", "--refresh")
		r.clearBranchState()
	}

	if msg == "" {
		msg = "reset: moving to " + id
	}
	_, err = r.run(ctx, invocation{env: committerEnv(sig)}, "update-ref", "-m", msg, "HEAD", id)
	return err
}

func (r *Repository) clearBranchState() {
	for _, name := range branchStateFiles {
		_ = os.Remove(filepath.Join(r.gitDir, name))
	}
}

// ResetDefault updates the index entries for paths only. With a target
// they are taken from its tree; with a nil target they are removed from
// the index. HEAD and the work tree are untouched.
func (r *Repository) ResetDefault(ctx context.Context, target *Object, paths []string) error {
	if len(paths) == 0 {
		return newError(CodeInvalidSpec, ClassIndex, "no paths given")
	}
	if target == nil {
		// ls-files expands directories and pathspecs to the staged paths.
		staged, err := r.gitNUL(ctx, append([]string{"ls-files", "-z", "--"}, paths...)...)
		if err != nil || len(staged) == 0 {
			return err
		}
		_, err = r.git(ctx, append([]string{"update-index", "--force-remove", "--"}, staged...)...)
		return err
	}
	commit, err := peelToCommit(ctx, target)
	if err != nil {
		return err
	}
	args := append([]string{"reset", "--quiet", commit.id.String(), "--"}, paths...)
	_, err = r.git(ctx, args...)
	return err
}
