package git

import (
	"context"
	"strconv"
	"strings"
)

// Config is the repository's effective configuration: local, global and
// system files layered the way the engine layers them. Writes go to the
// local file.
type Config struct {
	repo *Repository
	// file scopes reads and writes to one file (e.g. .gitmodules) when set.
	file []string
}

// Config returns the repository's layered configuration.
func (r *Repository) Config() *Config {
	return &Config{repo: r}
}

func (c *Config) args(args ...string) []string {
	return append(append([]string{"config"}, c.file...), args...)
}

func (c *Config) get(ctx context.Context, typ, key string) (string, error) {
	args := []string{"--get", key}
	if typ != "" {
		args = append([]string{"--type=" + typ}, args...)
	}
	out, err := c.repo.git(ctx, c.args(args...)...)
	if err != nil {
		// A missing key exits 1 without a diagnostic.
		if IsCode(err, CodeGeneric) {
			return "", newError(CodeNotFound, ClassConfig, "config value '%s' was not found", key)
		}
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// GetString returns the last value set for key.
func (c *Config) GetString(ctx context.Context, key string) (string, error) {
	return c.get(ctx, "", key)
}

// GetBool returns key interpreted as a boolean ("yes", "on", "1", ...).
func (c *Config) GetBool(ctx context.Context, key string) (bool, error) {
	s, err := c.get(ctx, "bool", key)
	if err != nil {
		return false, err
	}
	return s == "true", nil
}

// GetInt returns key interpreted as an integer, with k/m/g suffixes
// expanded.
func (c *Config) GetInt(ctx context.Context, key string) (int64, error) {
	s, err := c.get(ctx, "int", key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	invariant(err == nil, "config --type=int printed %q", s)
	return n, nil
}

// SetString writes key in the local configuration.
func (c *Config) SetString(ctx context.Context, key, value string) error {
	_, err := c.repo.git(ctx, c.args(key, value)...)
	return err
}

// SetBool writes key as a boolean in the local configuration.
func (c *Config) SetBool(ctx context.Context, key string, value bool) error {
	_, err := c.repo.git(ctx, c.args("--type=bool", key, strconv.FormatBool(value))...)
	return err
}

// Remove deletes key from the local configuration.
func (c *Config) Remove(ctx context.Context, key string) error {
	_, err := c.repo.git(ctx, c.args("--unset-all", key)...)
	if err != nil && IsCode(err, CodeGeneric) {
		return newError(CodeNotFound, ClassConfig, "could not find key '%s' to delete", key)
	}
	return err
}

// entries returns every key/value whose key matches the regular
// expression pattern, in file order. No match is an empty result.
func (c *Config) entries(ctx context.Context, pattern string) ([][2]string, error) {
	out, err := c.repo.gitNUL(ctx, c.args("-z", "--get-regexp", pattern)...)
	if err != nil {
		if IsCode(err, CodeGeneric) || IsCode(err, CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	kv := make([][2]string, 0, len(out))
	for _, rec := range out {
		key, value, _ := strings.Cut(rec, "\n")
		kv = append(kv, [2]string{key, value})
	}
	return kv, nil
}
