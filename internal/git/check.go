package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotFound indicates the engine executable is not installed or not
// in PATH.
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that the engine executable configured on ctx can be
// found.
func CheckGit(ctx context.Context) error {
	if _, err := exec.LookPath(binaryFrom(ctx)); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// Version returns the engine's version string, e.g. "2.47.1".
func Version(ctx context.Context) (string, error) {
	out, err := runEngine(ctx, "", invocation{}, "version")
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(out))
	return strings.TrimPrefix(v, "git version "), nil
}
