package git

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/raphi011/gitkit/internal/cmd"
)

// ErrorCode says what went wrong, independent of which subsystem failed.
type ErrorCode int

const (
	CodeGeneric ErrorCode = iota
	CodeNotFound
	CodeExists
	CodeAmbiguous
	CodeBareRepo
	CodeUnbornBranch
	CodeUnmerged
	CodeNonFastForward
	CodeInvalidSpec
	CodeConflict
	CodeLocked
	CodeAuth
	CodeClosed
)

func (c ErrorCode) String() string {
	switch c {
	case CodeGeneric:
		return "generic"
	case CodeNotFound:
		return "not found"
	case CodeExists:
		return "exists"
	case CodeAmbiguous:
		return "ambiguous"
	case CodeBareRepo:
		return "bare repository"
	case CodeUnbornBranch:
		return "unborn branch"
	case CodeUnmerged:
		return "unmerged"
	case CodeNonFastForward:
		return "non-fast-forward"
	case CodeInvalidSpec:
		return "invalid spec"
	case CodeConflict:
		return "conflict"
	case CodeLocked:
		return "locked"
	case CodeAuth:
		return "authentication"
	case CodeClosed:
		return "closed"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// ErrorClass names the subsystem that reported the error.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassOS
	ClassInvalid
	ClassReference
	ClassRepository
	ClassConfig
	ClassIndex
	ClassObject
	ClassNet
	ClassTree
	ClassSubmodule
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassOS:
		return "os"
	case ClassInvalid:
		return "invalid"
	case ClassReference:
		return "reference"
	case ClassRepository:
		return "repository"
	case ClassConfig:
		return "config"
	case ClassIndex:
		return "index"
	case ClassObject:
		return "object"
	case ClassNet:
		return "net"
	case ClassTree:
		return "tree"
	case ClassSubmodule:
		return "submodule"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Error is a classified engine failure. It is always fully populated.
type Error struct {
	Code    ErrorCode
	Class   ErrorClass
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (class=%s, code=%s)", e.Message, e.Class, e.Code)
}

// Is matches another *Error by code, and by class when the target sets one.
// This lets errors.Is(err, ErrNotFound) match any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Class == ClassNone || t.Class == e.Class
}

// Sentinels for errors.Is. Only Code (and Class when set) are compared.
var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrExists         = &Error{Code: CodeExists, Message: "already exists"}
	ErrAmbiguous      = &Error{Code: CodeAmbiguous, Message: "ambiguous"}
	ErrBareRepo       = &Error{Code: CodeBareRepo, Message: "bare repository"}
	ErrUnbornBranch   = &Error{Code: CodeUnbornBranch, Message: "unborn branch"}
	ErrUnmerged       = &Error{Code: CodeUnmerged, Message: "unmerged entries"}
	ErrNonFastForward = &Error{Code: CodeNonFastForward, Message: "non-fast-forward"}
	ErrInvalidSpec    = &Error{Code: CodeInvalidSpec, Message: "invalid spec"}
	ErrConflict       = &Error{Code: CodeConflict, Message: "conflict"}
	ErrLocked         = &Error{Code: CodeLocked, Message: "locked"}
	ErrAuth           = &Error{Code: CodeAuth, Message: "authentication failed"}

	// ErrClosed is returned by any handle whose repository was closed.
	ErrClosed = &Error{Code: CodeClosed, Class: ClassRepository, Message: "repository handle is closed"}
)

// newError builds a classified error with a formatted message.
func newError(code ErrorCode, class ErrorClass, format string, args ...any) *Error {
	return &Error{Code: code, Class: class, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// stderrRule maps engine diagnostics to a code. Rules are tried in order,
// so more specific phrasings come first.
type stderrRule struct {
	re    *regexp.Regexp
	code  ErrorCode
	class ErrorClass // ClassNone keeps the subcommand's class
}

var stderrRules = []stderrRule{
	{regexp.MustCompile(`is ambiguous`), CodeAmbiguous, ClassObject},
	{regexp.MustCompile(`bad (boolean|numeric) config value|invalid unit`), CodeInvalidSpec, ClassConfig},
	{regexp.MustCompile(`not a git repository`), CodeNotFound, ClassRepository},
	{regexp.MustCompile(`but expected|is at [0-9a-f]+ but`), CodeNonFastForward, ClassReference},
	{regexp.MustCompile(`non-fast-forward|\[rejected\]`), CodeNonFastForward, ClassNone},
	{regexp.MustCompile(`unable to create '.*\.lock'|\.lock': file exists`), CodeLocked, ClassNone},
	{regexp.MustCompile(`already exists`), CodeExists, ClassNone},
	{regexp.MustCompile(`not a valid (branch|ref) name|bad ref(name)? |invalid ref(name| format)|refusing to (create|update)`), CodeInvalidSpec, ClassReference},
	{regexp.MustCompile(`(in|with) a bare repository|must be run in a work tree`), CodeBareRepo, ClassRepository},
	{regexp.MustCompile(`authentication failed|could not read username|permission denied \(publickey`), CodeAuth, ClassNet},
	{regexp.MustCompile(`needs merge|resolve your current index first|unmerged`), CodeUnmerged, ClassIndex},
	{regexp.MustCompile(`would be overwritten|conflict`), CodeConflict, ClassIndex},
	{regexp.MustCompile(`unknown revision|needed a single revision|bad revision|not a valid object name|invalid object name|not a valid ref|no such ref|no such remote|does not exist|not found|did not match any|couldn't find remote ref|no such file or directory|does not appear to be a git repository`), CodeNotFound, ClassNone},
	{regexp.MustCompile(`could not resolve host|unable to access|could not read from remote`), CodeGeneric, ClassNet},
}

// subcommandClass is the default class for failures of an engine subcommand.
var subcommandClass = map[string]ErrorClass{
	"init":             ClassRepository,
	"rev-parse":        ClassInvalid,
	"update-ref":       ClassReference,
	"symbolic-ref":     ClassReference,
	"show-ref":         ClassReference,
	"for-each-ref":     ClassReference,
	"check-ref-format": ClassReference,
	"branch":           ClassReference,
	"config":           ClassConfig,
	"hash-object":      ClassObject,
	"cat-file":         ClassObject,
	"commit-tree":      ClassObject,
	"ls-tree":          ClassTree,
	"read-tree":        ClassIndex,
	"write-tree":       ClassIndex,
	"update-index":     ClassIndex,
	"ls-files":         ClassIndex,
	"rm":               ClassIndex,
	"add":              ClassIndex,
	"reset":            ClassObject,
	"clone":            ClassNet,
	"fetch":            ClassNet,
	"remote":           ClassConfig,
	"submodule":        ClassSubmodule,
}

// translate is the single point where a failed engine call becomes an
// *Error. Errors that are not process exits (missing binary, cancelled
// context) pass through unchanged.
func translate(args []string, err error) error {
	var ee *cmd.ExitError
	if !errors.As(err, &ee) {
		return err
	}

	msg := cleanDiagnostic(ee.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("git %s exited with status %d", subcommand(args), ee.Code)
	}

	class := subcommandClass[subcommand(args)]
	code := CodeGeneric
	lower := strings.ToLower(ee.Stderr)
	for _, r := range stderrRules {
		if r.re.MatchString(lower) {
			code = r.code
			if r.class != ClassNone {
				class = r.class
			}
			break
		}
	}
	return &Error{Code: code, Class: class, Message: msg}
}

// cleanDiagnostic drops hint lines, strips the "fatal: " and "error: "
// prefixes and joins what is left.
func cleanDiagnostic(stderr string) string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "hint:") {
			continue
		}
		line = strings.TrimPrefix(line, "fatal: ")
		line = strings.TrimPrefix(line, "error: ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "; ")
}

// subcommand returns the first argument that is not a global option.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-C" || a == "-c":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			return a
		}
	}
	return ""
}

// invariant aborts when the engine breaks a documented contract. Continuing
// would mean operating on state the binding cannot describe.
func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic("gitkit: engine invariant violated: " + fmt.Sprintf(format, args...))
	}
}
