package config

import (
	"context"
	"sync"
)

type resolverKey struct{}

// Resolver hands out the effective config for a repository, merging its
// .gitkit.toml over the global config on first use and caching the result.
type Resolver struct {
	global *Config

	mu    sync.Mutex
	cache map[string]*Config
}

// NewResolver creates a Resolver backed by global.
func NewResolver(global *Config) *Resolver {
	return &Resolver{global: global, cache: make(map[string]*Config)}
}

// ForRepository returns the effective config for the repository whose
// override file lives in dir (the work tree, or the git directory of a
// bare repository).
func (r *Resolver) ForRepository(dir string) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[dir]; ok {
		return cached, nil
	}
	local, err := LoadLocal(dir)
	if err != nil {
		return nil, err
	}
	merged := MergeLocal(r.global, local)
	r.cache[dir] = merged
	return merged, nil
}

// Global returns the config without repository overrides.
func (r *Resolver) Global() *Config {
	return r.global
}

// WithResolver stores r in the context.
func WithResolver(ctx context.Context, r *Resolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the Resolver stored in ctx. Without one it
// returns a Resolver over Default().
func ResolverFromContext(ctx context.Context) *Resolver {
	if r, ok := ctx.Value(resolverKey{}).(*Resolver); ok {
		return r
	}
	def := Default()
	return NewResolver(&def)
}
