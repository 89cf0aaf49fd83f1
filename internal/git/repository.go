package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/raphi011/gitkit/internal/cmd"
	"github.com/raphi011/gitkit/internal/log"
)

// noCopy marks a struct that must not be copied after first use.
// go vet's copylocks check reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Repository is an owned handle on one repository.
//
// A Repository is created by Open, Init, InitBare or Clone and must be
// released with Close. It is not safe for concurrent use: the engine
// session it owns has no synchronization of its own. Handles derived from
// it (objects, references, branches, iterators, ...) keep a pointer back to
// it and stop reaching the engine once it is closed.
type Repository struct {
	noCopy noCopy

	bin       string
	gitDir    string
	workDir   string // empty for bare repositories
	bare      bool
	namespace []byte // nil when no namespace is active

	odb    *objectReader
	closed bool
}

// Open opens an existing repository at path. path may be a work tree root
// or a bare repository; the engine decides which. Parent directories are
// not searched.
func Open(ctx context.Context, path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, newError(CodeNotFound, ClassOS, "failed to resolve path '%s': %v", path, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, newError(CodeNotFound, ClassOS, "failed to resolve path '%s': not a directory", abs)
	}

	inv := invocation{env: []string{"GIT_CEILING_DIRECTORIES=" + filepath.Dir(abs)}}
	out, err := runEngine(ctx, abs, inv, "rev-parse", "--absolute-git-dir", "--is-bare-repository")
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Code == CodeNotFound {
			return nil, newError(CodeNotFound, ClassRepository, "could not find repository at '%s'", abs)
		}
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	invariant(len(lines) == 2, "rev-parse --absolute-git-dir --is-bare-repository printed %q", out)

	r := &Repository{
		bin:    binaryFrom(ctx),
		gitDir: filepath.Clean(lines[0]),
		bare:   strings.TrimSpace(lines[1]) == "true",
	}
	if ns, ok := os.LookupEnv("GIT_NAMESPACE"); ok && ns != "" {
		r.namespace = []byte(ns)
	}

	if !r.bare {
		top, err := runEngine(ctx, abs, inv, "rev-parse", "--show-toplevel")
		if err == nil && strings.TrimSpace(string(top)) != "" {
			r.workDir = filepath.Clean(strings.TrimSpace(string(top)))
		} else {
			// Opened from inside the control directory.
			r.workDir = filepath.Dir(r.gitDir)
		}
	}

	gitDir, workDir, bin := r.gitDir, r.workDir, r.bin
	r.odb = newObjectReader(func(ctx context.Context) (*cmd.Duplex, error) {
		args := []string{"--git-dir=" + gitDir, "cat-file", "--batch"}
		dir := workDir
		if dir == "" {
			dir = gitDir
		}
		return cmd.StartDuplex(ctx, cmd.Request{Dir: dir}, bin, args...)
	})
	// A handle dropped without Close still releases its engine process.
	runtime.AddCleanup(r, func(o *objectReader) { o.shutdown() }, r.odb)

	log.FromContext(ctx).Debug("opened repository", "gitdir", r.gitDir, "bare", r.bare)
	return r, nil
}

// Init creates a new repository with a work tree in the existing directory
// path.
func Init(ctx context.Context, path string) (*Repository, error) {
	return initRepository(ctx, path, false)
}

// InitBare creates a new bare repository in the existing directory path.
func InitBare(ctx context.Context, path string) (*Repository, error) {
	return initRepository(ctx, path, true)
}

func initRepository(ctx context.Context, path string, bare bool) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, newError(CodeNotFound, ClassOS, "failed to resolve path '%s': %v", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, newError(CodeNotFound, ClassOS, "failed to initialize repository: '%s' does not exist", abs)
	}
	if !info.IsDir() {
		return nil, newError(CodeInvalidSpec, ClassOS, "failed to initialize repository: '%s' is not a directory", abs)
	}

	args := []string{"init", "--quiet"}
	if bare {
		args = append(args, "--bare")
	}
	if _, err := runEngine(ctx, abs, invocation{}, append(args, abs)...); err != nil {
		return nil, err
	}
	return Open(ctx, abs)
}

// Close releases the engine session. Handles derived from the repository
// return ErrClosed afterwards. Closing twice is a no-op.
func (r *Repository) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.odb.shutdown()
	return nil
}

// IsBare reports whether the repository has no work tree.
func (r *Repository) IsBare() bool {
	return r.bare
}

// IsShallow reports whether the repository is a shallow clone.
func (r *Repository) IsShallow() bool {
	info, err := os.Stat(filepath.Join(r.gitDir, "shallow"))
	return err == nil && info.Size() > 0
}

// IsEmpty reports whether HEAD is unborn and no references exist.
func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	if _, err := r.Head(ctx); err == nil {
		return false, nil
	} else if !IsCode(err, CodeUnbornBranch) {
		return false, err
	}
	refs, err := r.gitLines(ctx, "for-each-ref", "--count=1", "--format=%(refname)")
	if err != nil {
		return false, err
	}
	return len(refs) == 0, nil
}

// Path returns the control directory: ".git" for repositories with a work
// tree, the repository itself for bare ones.
func (r *Repository) Path() string {
	invariant(r.gitDir != "", "repository path is empty")
	return r.gitDir
}

// Workdir returns the work tree root. It reports false for bare
// repositories.
func (r *Repository) Workdir() (string, bool) {
	if r.workDir == "" {
		return "", false
	}
	return r.workDir, true
}

// Namespace returns the active namespace. It reports false when there is
// none or when it is not valid UTF-8; NamespaceBytes still returns the raw
// bytes in the latter case.
func (r *Repository) Namespace() (string, bool) {
	b := r.NamespaceBytes()
	if b == nil || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// NamespaceBytes returns the active namespace, or nil when there is none.
func (r *Repository) NamespaceBytes() []byte {
	if r.namespace == nil {
		return nil
	}
	return append([]byte(nil), r.namespace...)
}

// SetNamespace scopes later reference operations to ns. An empty ns
// clears it.
func (r *Repository) SetNamespace(ns string) {
	if ns == "" {
		r.namespace = nil
		return
	}
	r.namespace = []byte(ns)
}

// Signature builds a signature from user.name and user.email and the
// current time. It fails with CodeNotFound when either is unset.
func (r *Repository) Signature(ctx context.Context) (*Signature, error) {
	cfg := r.Config()
	name, err := cfg.GetString(ctx, "user.name")
	if err != nil {
		return nil, identityError(err)
	}
	email, err := cfg.GetString(ctx, "user.email")
	if err != nil {
		return nil, identityError(err)
	}
	return NewSignature(name, email, time.Now())
}

func identityError(err error) error {
	if IsCode(err, CodeNotFound) {
		return newError(CodeNotFound, ClassConfig, "config value 'user.name' or 'user.email' was not found")
	}
	return err
}
