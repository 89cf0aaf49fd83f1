package git

import (
	"context"
	"errors"
	"testing"
)

func TestCheckGit_Available(t *testing.T) {
	t.Parallel()
	// git must be available in CI and dev environments
	if err := CheckGit(context.Background()); err != nil {
		t.Fatalf("CheckGit() = %v, want nil (git should be in PATH)", err)
	}
}

func TestCheckGit_MissingBinary(t *testing.T) {
	t.Parallel()
	ctx := WithBinary(context.Background(), "gitkit-no-such-binary")
	if err := CheckGit(ctx); !errors.Is(err, ErrGitNotFound) {
		t.Fatalf("CheckGit() = %v, want ErrGitNotFound", err)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()
	v, err := Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v == "" || v[0] < '0' || v[0] > '9' {
		t.Errorf("Version() = %q, want a version number", v)
	}
}
