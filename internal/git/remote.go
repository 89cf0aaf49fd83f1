package git

import (
	"context"
	"regexp"
	"strings"
)

// Remote is a named (or anonymous) repository to fetch from.
type Remote struct {
	repo  *Repository
	name  string // empty for anonymous remotes
	url   string
	fetch []string
}

// Remotes lists the configured remote names.
func (r *Repository) Remotes(ctx context.Context) ([]string, error) {
	return r.gitLines(ctx, "remote")
}

// FindRemote loads the configured remote name.
func (r *Repository) FindRemote(ctx context.Context, name string) (*Remote, error) {
	kv, err := r.Config().entries(ctx, `^remote\.`+regexp.QuoteMeta(name)+`\.(url|fetch)$`)
	if err != nil {
		return nil, err
	}
	rem := &Remote{repo: r, name: name}
	for _, e := range kv {
		switch {
		case strings.HasSuffix(e[0], ".url"):
			rem.url = e[1]
		case strings.HasSuffix(e[0], ".fetch"):
			rem.fetch = append(rem.fetch, e[1])
		}
	}
	if rem.url == "" {
		return nil, newError(CodeNotFound, ClassConfig, "remote '%s' does not exist", name)
	}
	return rem, nil
}

// CreateRemote adds a remote with the default fetch refspec and saves it
// to the local configuration.
func (r *Repository) CreateRemote(ctx context.Context, name, url string) (*Remote, error) {
	if _, err := r.git(ctx, "remote", "add", "--", name, url); err != nil {
		return nil, err
	}
	return r.FindRemote(ctx, name)
}

// RemoteAnonymous creates an in-memory remote for url. It is never
// written to the configuration. An empty fetch uses no refspec, so Fetch
// needs explicit refspecs.
func (r *Repository) RemoteAnonymous(url, fetch string) (*Remote, error) {
	if url == "" {
		return nil, newError(CodeInvalidSpec, ClassConfig, "remote url is empty")
	}
	rem := &Remote{repo: r, url: url}
	if fetch != "" {
		rem.fetch = []string{fetch}
	}
	return rem, nil
}

// Name returns the remote name. It reports false for anonymous remotes.
func (rem *Remote) Name() (string, bool) {
	return rem.name, rem.name != ""
}

// URL returns the fetch URL.
func (rem *Remote) URL() string { return rem.url }

// FetchRefspecs returns the configured fetch refspecs.
func (rem *Remote) FetchRefspecs() []string {
	return append([]string(nil), rem.fetch...)
}

// Fetch downloads from the remote. Empty refspecs use the remote's own.
func (rem *Remote) Fetch(ctx context.Context, refspecs []string) error {
	if len(refspecs) == 0 {
		refspecs = rem.fetch
	}
	source := rem.name
	if source == "" {
		source = rem.url
		if len(refspecs) == 0 {
			return newError(CodeInvalidSpec, ClassNet, "anonymous remote '%s' has no refspecs to fetch", rem.url)
		}
	}
	args := append([]string{"fetch", "--quiet", "--no-write-fetch-head", "--", source}, refspecs...)
	_, err := rem.repo.git(ctx, args...)
	return err
}
