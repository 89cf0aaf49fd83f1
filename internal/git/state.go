package git

import (
	"os"
	"path/filepath"
)

// RepositoryState is the operation in progress, if any.
type RepositoryState int

const (
	StateClean RepositoryState = iota
	StateMerge
	StateRevert
	StateCherryPick
	StateBisect
	StateRebase
	StateRebaseInteractive
	StateRebaseMerge
	StateApplyMailbox
	StateApplyMailboxOrRebase
)

func (s RepositoryState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateMerge:
		return "merge"
	case StateRevert:
		return "revert"
	case StateCherryPick:
		return "cherry-pick"
	case StateBisect:
		return "bisect"
	case StateRebase:
		return "rebase"
	case StateRebaseInteractive:
		return "rebase-interactive"
	case StateRebaseMerge:
		return "rebase-merge"
	case StateApplyMailbox:
		return "apply-mailbox"
	case StateApplyMailboxOrRebase:
		return "apply-mailbox-or-rebase"
	default:
		return "unknown"
	}
}

// Raw state codes as the engine reports them. They are kept separate from
// RepositoryState so the mapping below stays total over the engine's set.
const (
	rawClean = iota
	rawMerge
	rawRevert
	rawRevertSequence
	rawCherryPick
	rawCherryPickSequence
	rawBisect
	rawRebase
	rawRebaseInteractive
	rawRebaseMerge
	rawApplyMailbox
	rawApplyMailboxOrRebase
)

// stateMarker pairs a control-directory path with the raw state its
// presence signals. Order matters: the first match wins.
type stateMarker struct {
	path string
	dir  bool
	raw  int
}

var stateMarkers = []stateMarker{
	{filepath.Join("rebase-apply", "rebasing"), false, rawRebase},
	{filepath.Join("rebase-apply", "applying"), false, rawApplyMailbox},
	{"rebase-apply", true, rawApplyMailboxOrRebase},
	{filepath.Join("rebase-merge", "interactive"), false, rawRebaseInteractive},
	{"rebase-merge", true, rawRebaseMerge},
	{"MERGE_HEAD", false, rawMerge},
	{"REVERT_HEAD", false, rawRevert},
	{"CHERRY_PICK_HEAD", false, rawCherryPick},
	{"BISECT_LOG", false, rawBisect},
}

// rawState probes the control directory the way the engine does.
func rawState(gitDir string) int {
	for _, m := range stateMarkers {
		info, err := os.Stat(filepath.Join(gitDir, m.path))
		if err != nil || info.IsDir() != m.dir {
			continue
		}
		if (m.raw == rawRevert || m.raw == rawCherryPick) && sequencerActive(gitDir) {
			return m.raw + 1
		}
		return m.raw
	}
	return rawClean
}

func sequencerActive(gitDir string) bool {
	_, err := os.Stat(filepath.Join(gitDir, "sequencer", "todo"))
	return err == nil
}

// State returns the operation in progress.
func (r *Repository) State() RepositoryState {
	return stateFromRaw(rawState(r.gitDir))
}

// stateFromRaw is a total mapping over the engine's state codes. A code
// outside that set means the two have drifted apart.
func stateFromRaw(raw int) RepositoryState {
	switch raw {
	case rawClean:
		return StateClean
	case rawMerge:
		return StateMerge
	case rawRevert, rawRevertSequence:
		return StateRevert
	case rawCherryPick, rawCherryPickSequence:
		return StateCherryPick
	case rawBisect:
		return StateBisect
	case rawRebase:
		return StateRebase
	case rawRebaseInteractive:
		return StateRebaseInteractive
	case rawRebaseMerge:
		return StateRebaseMerge
	case rawApplyMailbox:
		return StateApplyMailbox
	case rawApplyMailboxOrRebase:
		return StateApplyMailboxOrRebase
	default:
		invariant(false, "unknown repository state %d", raw)
		return StateClean
	}
}
