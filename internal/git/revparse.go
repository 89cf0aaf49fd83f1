package git

import (
	"context"
	"strings"
)

// RevparseMode describes the shape of a parsed revision.
type RevparseMode int

const (
	RevparseModeSingle RevparseMode = 1 << iota
	RevparseModeRange
	RevparseModeMergeBase
)

func (m RevparseMode) String() string {
	switch {
	case m&RevparseModeSingle != 0:
		return "single"
	case m&RevparseModeMergeBase != 0:
		return "merge-base"
	case m&RevparseModeRange != 0:
		return "range"
	default:
		return "unknown"
	}
}

// Revspec is the result of Revparse: one object, or the two ends of a
// range.
type Revspec struct {
	from *Object
	to   *Object
	mode RevparseMode
}

// From returns the single object or the start of the range.
func (s *Revspec) From() *Object { return s.from }

// To returns the end of the range, or nil for a single revision.
func (s *Revspec) To() *Object { return s.to }

// Mode reports the shape of the revision.
func (s *Revspec) Mode() RevparseMode { return s.mode }

// rawRevspec is what the engine printed, before shape checks.
type rawRevspec struct {
	mode     RevparseMode
	from, to string
}

// parseRevOutput reads rev-parse output into the engine's shape:
//
//	single      <id>
//	A..B        <B> ^<A>
//	A...B       <B> <A> ^<base>...
//
// Anything else has no Revspec form, including "A^!", which prints the
// same shape as a range without being one.
func parseRevOutput(spec string, lines []string) (rawRevspec, bool) {
	var plain, negated []string
	for _, l := range lines {
		if l == "--" {
			continue
		}
		if s, ok := strings.CutPrefix(l, "^"); ok {
			negated = append(negated, s)
		} else {
			plain = append(plain, l)
		}
	}
	switch {
	case len(plain) == 1 && len(negated) == 0:
		return rawRevspec{mode: RevparseModeSingle, from: plain[0]}, true
	case len(plain) == 1 && len(negated) == 1 && strings.Contains(spec, ".."):
		return rawRevspec{mode: RevparseModeRange, from: negated[0], to: plain[0]}, true
	case len(plain) == 2 && strings.Contains(spec, "..."):
		return rawRevspec{mode: RevparseModeRange | RevparseModeMergeBase, from: plain[1], to: plain[0]}, true
	}
	return rawRevspec{}, false
}

// checkSpec rejects expressions the engine would read as options.
func checkSpec(spec string) error {
	if spec == "" || strings.HasPrefix(spec, "-") {
		return newError(CodeInvalidSpec, ClassInvalid, "invalid revspec '%s'", spec)
	}
	return nil
}

// Revparse resolves a revision expression. Ranges ("A..B", "A...B")
// yield both ends.
func (r *Repository) Revparse(ctx context.Context, spec string) (*Revspec, error) {
	if err := checkSpec(spec); err != nil {
		return nil, err
	}
	lines, err := r.gitLines(ctx, "rev-parse", spec, "--")
	if err != nil {
		return nil, err
	}
	raw, ok := parseRevOutput(spec, lines)
	if !ok {
		return nil, newError(CodeInvalidSpec, ClassInvalid, "revspec '%s' does not name a single object or a range", spec)
	}

	out := &Revspec{mode: raw.mode}
	if raw.from != "" {
		if out.from, err = r.FindObject(ctx, mustOid(raw.from, "rev-parse "+spec), ObjectAny); err != nil {
			return nil, err
		}
	}
	if raw.to != "" {
		if out.to, err = r.FindObject(ctx, mustOid(raw.to, "rev-parse "+spec), ObjectAny); err != nil {
			return nil, err
		}
	}

	switch {
	case raw.mode&RevparseModeSingle != 0:
		invariant(out.to == nil, "rev-parse %q: single revision with a range end", spec)
		invariant(out.from != nil, "rev-parse %q: single revision without an object", spec)
	case raw.mode&RevparseModeRange != 0:
		invariant(out.from != nil && out.to != nil, "rev-parse %q: range with a missing end", spec)
	default:
		invariant(false, "rev-parse %q: unknown mode %d", spec, raw.mode)
	}
	return out, nil
}

// RevparseSingle resolves a revision expression that must name exactly one
// object.
func (r *Repository) RevparseSingle(ctx context.Context, spec string) (*Object, error) {
	if err := checkSpec(spec); err != nil {
		return nil, err
	}
	out, err := r.gitString(ctx, "rev-parse", "--verify", spec)
	if err != nil {
		return nil, err
	}
	return r.FindObject(ctx, mustOid(out, "rev-parse --verify "+spec), ObjectAny)
}
