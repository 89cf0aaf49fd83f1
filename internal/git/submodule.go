package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Submodule is a nested repository recorded in .gitmodules.
type Submodule struct {
	repo   *Repository
	name   string
	path   string
	url    string
	branch string
}

// gitmodules returns a Config scoped to the .gitmodules file: the work
// tree copy, or the one committed at HEAD for bare repositories.
func (r *Repository) gitmodules() *Config {
	if r.bare {
		return &Config{repo: r, file: []string{"--blob", "HEAD:.gitmodules"}}
	}
	return &Config{repo: r, file: []string{"--file", filepath.Join(r.workDir, ".gitmodules")}}
}

// gitmodulesIndex is one read of .gitmodules: the submodule names in
// listing order and the entries they resolve to.
type gitmodulesIndex struct {
	names  []string
	byName map[string]*Submodule
	order  []*Submodule
}

func (r *Repository) readGitmodules(ctx context.Context) (*gitmodulesIndex, error) {
	kv, err := r.gitmodules().entries(ctx, `^submodule\.`)
	if err != nil {
		return nil, err
	}
	idx := &gitmodulesIndex{byName: make(map[string]*Submodule)}
	for _, e := range kv {
		rest := strings.TrimPrefix(e[0], "submodule.")
		dot := strings.LastIndexByte(rest, '.')
		if dot < 0 {
			continue
		}
		name, key := rest[:dot], rest[dot+1:]
		sm, ok := idx.byName[name]
		if !ok {
			sm = &Submodule{repo: r, name: name}
			idx.byName[name] = sm
			idx.order = append(idx.order, sm)
		}
		switch key {
		case "path":
			sm.path = e[1]
			idx.names = append(idx.names, name)
		case "url":
			sm.url = e[1]
		case "branch":
			sm.branch = e[1]
		}
	}
	return idx, nil
}

// lookup finds a submodule by name, then by path.
func (idx *gitmodulesIndex) lookup(nameOrPath string) (*Submodule, bool) {
	if sm, ok := idx.byName[nameOrPath]; ok && sm.path != "" {
		return sm, true
	}
	clean := filepath.ToSlash(filepath.Clean(nameOrPath))
	for _, sm := range idx.order {
		if sm.path == clean {
			return sm, true
		}
	}
	return nil, false
}

// Submodules lists every submodule in .gitmodules order.
func (r *Repository) Submodules(ctx context.Context) ([]*Submodule, error) {
	idx, err := r.readGitmodules(ctx)
	if err != nil {
		return nil, err
	}
	subs := make([]*Submodule, 0, len(idx.names))
	for _, name := range idx.names {
		sm, ok := idx.lookup(name)
		// Every listed name has a path entry, so it always resolves.
		invariant(ok, "submodule '%s' was listed but cannot be looked up", name)
		subs = append(subs, sm)
	}
	return subs, nil
}

// FindSubmodule looks a submodule up by name, then by path.
func (r *Repository) FindSubmodule(ctx context.Context, nameOrPath string) (*Submodule, error) {
	idx, err := r.readGitmodules(ctx)
	if err != nil {
		return nil, err
	}
	if sm, ok := idx.lookup(nameOrPath); ok {
		return sm, nil
	}
	return nil, newError(CodeNotFound, ClassSubmodule, "no submodule named '%s'", nameOrPath)
}

// AddSubmodule starts adding a submodule: it records url and path in
// .gitmodules and the local configuration and creates an empty nested
// repository with an "origin" remote. With useGitlink the nested control
// directory lives under .git/modules. Fetching, checking out and
// AddFinalize are left to the caller.
func (r *Repository) AddSubmodule(ctx context.Context, url, path string, useGitlink bool) (*Submodule, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.bare {
		return nil, newError(CodeBareRepo, ClassSubmodule, "cannot add submodule in a bare repository")
	}
	path = filepath.ToSlash(filepath.Clean(path))
	if path == "." || filepath.IsAbs(path) || strings.HasPrefix(path, "../") {
		return nil, newError(CodeInvalidSpec, ClassSubmodule, "submodule path '%s' must be inside the work tree", path)
	}

	if _, err := r.FindSubmodule(ctx, path); err == nil {
		return nil, newError(CodeExists, ClassSubmodule, "attempt to add submodule '%s' that already exists", path)
	} else if !IsCode(err, CodeNotFound) {
		return nil, err
	}
	staged, err := r.gitLines(ctx, "ls-files", "--", path)
	if err != nil {
		return nil, err
	}
	if len(staged) > 0 {
		return nil, newError(CodeExists, ClassSubmodule, "'%s' already exists in the index", path)
	}

	modules := r.gitmodules()
	for _, kv := range [][2]string{
		{"submodule." + path + ".path", path},
		{"submodule." + path + ".url", url},
	} {
		if err := modules.SetString(ctx, kv[0], kv[1]); err != nil {
			return nil, err
		}
	}
	if err := r.Config().SetString(ctx, "submodule."+path+".url", url); err != nil {
		return nil, err
	}

	subdir := filepath.Join(r.workDir, filepath.FromSlash(path))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return nil, newError(CodeGeneric, ClassOS, "failed to create '%s': %v", subdir, err)
	}
	args := []string{"init", "--quiet"}
	if useGitlink {
		args = append(args, "--separate-git-dir="+filepath.Join(r.gitDir, "modules", filepath.FromSlash(path)))
	}
	if _, err := runEngine(ctx, subdir, invocation{}, append(args, subdir)...); err != nil {
		return nil, err
	}
	if _, err := runEngine(ctx, subdir, invocation{}, "remote", "add", "origin", url); err != nil {
		return nil, err
	}

	return &Submodule{repo: r, name: path, path: path, url: url}, nil
}

// Name returns the submodule's name in .gitmodules.
func (s *Submodule) Name() string { return s.name }

// Path returns the path relative to the work tree.
func (s *Submodule) Path() string { return s.path }

// URL returns the configured URL.
func (s *Submodule) URL() string { return s.url }

// Branch returns the branch the submodule tracks, if one is configured.
func (s *Submodule) Branch() (string, bool) { return s.branch, s.branch != "" }

// IndexID returns the commit recorded for the submodule in the index.
// It reports false when the path is not staged as a submodule.
func (s *Submodule) IndexID(ctx context.Context) (Oid, bool, error) {
	recs, err := s.repo.gitNUL(ctx, "ls-files", "--stage", "-z", "--", s.path)
	if err != nil {
		return ZeroOid, false, err
	}
	for _, rec := range recs {
		e := parseIndexEntry(rec)
		if e.Path == s.path && e.Mode == ModeGitlink {
			return e.ID, true, nil
		}
	}
	return ZeroOid, false, nil
}

// Open opens the nested repository.
func (s *Submodule) Open(ctx context.Context) (*Repository, error) {
	if s.repo.closed {
		return nil, ErrClosed
	}
	if s.repo.bare {
		return nil, newError(CodeBareRepo, ClassSubmodule, "cannot open submodule '%s' of a bare repository", s.name)
	}
	return Open(ctx, filepath.Join(s.repo.workDir, filepath.FromSlash(s.path)))
}

// AddFinalize stages .gitmodules and the submodule's current HEAD
// commit, completing AddSubmodule once the nested repository has one.
func (s *Submodule) AddFinalize(ctx context.Context) error {
	sub, err := s.Open(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	head, err := sub.Head(ctx)
	if err != nil {
		if errors.Is(err, ErrUnbornBranch) {
			return newError(CodeUnbornBranch, ClassSubmodule, "submodule '%s' has no commit checked out", s.name)
		}
		return err
	}
	id, _ := head.Target()

	if _, err := s.repo.git(ctx, "update-index", "--add", "--", ".gitmodules"); err != nil {
		return err
	}
	_, err = s.repo.git(ctx, "update-index", "--add", "--cacheinfo", "160000,"+id.String()+","+s.path)
	return err
}
