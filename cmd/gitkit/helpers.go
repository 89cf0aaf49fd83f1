package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/git"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// discoverRepository opens the repository containing dir, walking up
// through parent directories until one opens.
func discoverRepository(ctx context.Context, dir string) (*git.Repository, error) {
	start := dir
	for {
		repo, err := git.Open(ctx, dir)
		if err == nil {
			return repo, nil
		}
		if !errors.Is(err, git.ErrNotFound) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("not a git repository (or any parent up to /): %s", start)
		}
		dir = parent
	}
}

// openRepo opens the repository for the current command together with
// its effective config. The caller closes the repository.
func openRepo(ctx context.Context) (*git.Repository, *config.Config, error) {
	repo, err := discoverRepository(ctx, workDirFromContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.ResolverFromContext(ctx).ForRepository(configDir(repo))
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return repo, cfg, nil
}

// globalConfig returns the config for commands that run outside any
// repository.
func globalConfig(ctx context.Context) *config.Config {
	return config.ResolverFromContext(ctx).Global()
}

// configDir is where a repository keeps its .gitkit.toml: the work tree,
// or the git directory of a bare repository.
func configDir(repo *git.Repository) string {
	if dir, ok := repo.Workdir(); ok {
		return dir
	}
	return repo.Path()
}

// signature returns the repository's configured identity, falling back
// to [identity] from the gitkit config.
func signature(ctx context.Context, repo *git.Repository, cfg *config.Config) (*git.Signature, error) {
	sig, err := repo.Signature(ctx)
	if err == nil {
		return sig, nil
	}
	if !errors.Is(err, git.ErrNotFound) {
		return nil, err
	}
	if cfg.Identity.Name == "" || cfg.Identity.Email == "" {
		return nil, fmt.Errorf("no identity configured: set user.name and user.email, or [identity] in %s", config.LocalConfigFileName)
	}
	return git.NowSignature(cfg.Identity.Name, cfg.Identity.Email)
}

// suggest ranks candidates against name and returns the best matches.
func suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		if m.Str == name {
			continue
		}
		out = append(out, m.Str)
	}
	return out
}

// withSuggestions appends "did you mean" hints to a not-found error.
func withSuggestions(err error, name string, candidates []string) error {
	if !errors.Is(err, git.ErrNotFound) {
		return err
	}
	hints := suggest(name, candidates)
	if len(hints) == 0 {
		return err
	}
	return fmt.Errorf("%w\n\nDid you mean one of these?\n\t%s", err, strings.Join(hints, "\n\t"))
}

// branchNames lists the names of the repository's branches of kind, or
// of every kind when kind is nil.
func branchNames(ctx context.Context, repo *git.Repository, kind *git.BranchType) ([]string, error) {
	it, err := repo.Branches(ctx, kind)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var names []string
	for b, err := range it.All() {
		if err != nil {
			return nil, err
		}
		names = append(names, b.Name())
	}
	return names, nil
}

// referenceNames lists every reference name, full and short.
func referenceNames(ctx context.Context, repo *git.Repository) ([]string, error) {
	it, err := repo.References(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var names []string
	for ref, err := range it.All() {
		if err != nil {
			return nil, err
		}
		names = append(names, ref.Name())
	}
	return names, nil
}

// lookupBranch finds a branch, adding suggestions when it does not exist.
func lookupBranch(ctx context.Context, repo *git.Repository, name string, kind git.BranchType) (*git.Branch, error) {
	b, err := repo.FindBranch(ctx, name, kind)
	if err == nil {
		return b, nil
	}
	names, listErr := branchNames(ctx, repo, &kind)
	if listErr != nil {
		return nil, err
	}
	return nil, withSuggestions(err, name, names)
}

// lookupReference finds a reference by full name, adding suggestions when
// it does not exist.
func lookupReference(ctx context.Context, repo *git.Repository, name string) (*git.Reference, error) {
	ref, err := repo.FindReference(ctx, name)
	if err == nil {
		return ref, nil
	}
	names, listErr := referenceNames(ctx, repo)
	if listErr != nil {
		return nil, err
	}
	return nil, withSuggestions(err, name, names)
}

// resolvePath makes p absolute relative to the command's working directory.
func resolvePath(ctx context.Context, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workDirFromContext(ctx), p)
}

// orDash renders empty values as "-".
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// resolveCommit resolves spec and peels it to a commit.
func resolveCommit(ctx context.Context, repo *git.Repository, spec string) (*git.Commit, error) {
	obj, err := repo.RevparseSingle(ctx, spec)
	if err != nil {
		return nil, err
	}
	if obj.Kind() != git.ObjectCommit {
		if obj, err = obj.Peel(ctx, git.ObjectCommit); err != nil {
			return nil, err
		}
	}
	c, _ := obj.AsCommit()
	return c, nil
}

// reflogSignature returns the identity for reflog entries, or nil to let
// the engine pick its own when none is configured.
func reflogSignature(ctx context.Context, repo *git.Repository, cfg *config.Config) *git.Signature {
	sig, err := signature(ctx, repo, cfg)
	if err != nil {
		return nil
	}
	return sig
}
