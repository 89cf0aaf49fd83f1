package git

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/raphi011/gitkit/internal/cmd"
)

type binaryKey struct{}

// DefaultBinary is the engine executable used when the context names none.
const DefaultBinary = "git"

// WithBinary makes every handle opened under ctx drive the given engine
// executable instead of "git" from PATH.
func WithBinary(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, binaryKey{}, path)
}

// binaryFrom returns the engine executable configured on ctx.
func binaryFrom(ctx context.Context) string {
	if b, ok := ctx.Value(binaryKey{}).(string); ok && b != "" {
		return b
	}
	return DefaultBinary
}

// invocation carries the optional parts of an engine call.
type invocation struct {
	env   []string
	stdin io.Reader
}

// runEngine calls the engine outside any repository (init, clone, open).
// Failures are translated into *Error.
func runEngine(ctx context.Context, dir string, inv invocation, args ...string) ([]byte, error) {
	out, err := cmd.Exec(ctx, cmd.Request{Dir: dir, Env: inv.env, Stdin: inv.stdin}, binaryFrom(ctx), args...)
	if err != nil {
		return nil, translate(args, err)
	}
	return out, nil
}

// sessionArgs pins every call to this repository, so the engine never
// discovers a different one from the working directory.
func (r *Repository) sessionArgs(args []string) []string {
	full := make([]string, 0, len(args)+2)
	full = append(full, "--git-dir="+r.gitDir)
	if r.workDir != "" {
		full = append(full, "--work-tree="+r.workDir)
	}
	return append(full, args...)
}

func (r *Repository) sessionEnv(extra []string) []string {
	var env []string
	if r.namespace != nil {
		env = append(env, "GIT_NAMESPACE="+string(r.namespace))
	}
	return append(env, extra...)
}

func (r *Repository) dir() string {
	if r.workDir != "" {
		return r.workDir
	}
	return r.gitDir
}

// run is the single path from a repository handle into the engine.
func (r *Repository) run(ctx context.Context, inv invocation, args ...string) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	full := r.sessionArgs(args)
	req := cmd.Request{Dir: r.dir(), Env: r.sessionEnv(inv.env), Stdin: inv.stdin}
	out, err := cmd.Exec(ctx, req, r.bin, full...)
	if err != nil {
		return nil, translate(args, err)
	}
	return out, nil
}

// git runs an engine subcommand with no extra env or stdin.
func (r *Repository) git(ctx context.Context, args ...string) ([]byte, error) {
	return r.run(ctx, invocation{}, args...)
}

// gitString runs an engine subcommand and returns trimmed stdout.
func (r *Repository) gitString(ctx context.Context, args ...string) (string, error) {
	out, err := r.git(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// gitLines runs an engine subcommand and returns its non-empty output lines.
func (r *Repository) gitLines(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// gitNUL runs an engine subcommand with -z style output and splits it.
func (r *Repository) gitNUL(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	var fields []string
	for _, f := range bytes.Split(out, []byte{0}) {
		if len(f) > 0 {
			fields = append(fields, string(f))
		}
	}
	return fields, nil
}

// stream starts a streaming engine call for cursor-style iteration.
func (r *Repository) stream(ctx context.Context, args ...string) (*cmd.Stream, error) {
	if r.closed {
		return nil, ErrClosed
	}
	req := cmd.Request{Dir: r.dir(), Env: r.sessionEnv(nil)}
	s, err := cmd.Start(ctx, req, r.bin, r.sessionArgs(args)...)
	if err != nil {
		return nil, translate(args, err)
	}
	return s, nil
}
