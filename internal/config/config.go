package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/gitkit/internal/storage"
)

// IdentityConfig is the fallback signature used when the repository
// configuration has no user.name or user.email.
type IdentityConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// CloneConfig holds defaults for "gitkit clone".
type CloneConfig struct {
	Bare  bool `toml:"bare"`
	Depth int  `toml:"depth"` // 0 = full history
}

// ResetConfig holds defaults for "gitkit reset".
type ResetConfig struct {
	DefaultKind string `toml:"default_kind"` // "soft", "mixed" or "hard"
	Confirm     bool   `toml:"confirm"`      // ask before a hard reset on a terminal
}

// BranchesConfig holds defaults for "gitkit branch list".
type BranchesConfig struct {
	DefaultFilter string `toml:"default_filter"` // "local", "remote" or "all"
}

// ThemeConfig selects the colors used for tables and status lines.
type ThemeConfig struct {
	Name string `toml:"name"` // "default" or "none"
}

// Config holds the gitkit configuration.
type Config struct {
	GitBinary string         `toml:"git_binary"`
	Identity  IdentityConfig `toml:"identity"`
	Clone     CloneConfig    `toml:"clone"`
	Reset     ResetConfig    `toml:"reset"`
	Branches  BranchesConfig `toml:"branches"`
	Theme     ThemeConfig    `toml:"theme"`
}

// Defaults for fields left empty in the file.
const (
	DefaultGitBinary    = "git"
	DefaultResetKind    = "mixed"
	DefaultBranchFilter = "all"
	DefaultThemeName    = "default"
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		GitBinary: DefaultGitBinary,
		Reset: ResetConfig{
			DefaultKind: DefaultResetKind,
			Confirm:     true,
		},
		Branches: BranchesConfig{DefaultFilter: DefaultBranchFilter},
		Theme:    ThemeConfig{Name: DefaultThemeName},
	}
}

// Path returns the config file location. GITKIT_CONFIG overrides the
// default of ~/.config/gitkit/config.toml.
func Path() (string, error) {
	if p := os.Getenv("GITKIT_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := storage.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and applies environment overrides.
// A missing file yields Default() and no error. An error is returned only
// when the file exists but cannot be parsed or fails validation.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default()), nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return applyEnv(Default()), err
	}
	return applyEnv(cfg), nil
}

// LoadFile reads one config file. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// applyEnv applies GITKIT_GIT, which picks the engine binary.
func applyEnv(cfg Config) Config {
	if bin := os.Getenv("GITKIT_GIT"); bin != "" {
		cfg.GitBinary = bin
	}
	return cfg
}

func (c *Config) fillDefaults() {
	if c.GitBinary == "" {
		c.GitBinary = DefaultGitBinary
	}
	if c.Reset.DefaultKind == "" {
		c.Reset.DefaultKind = DefaultResetKind
	}
	if c.Branches.DefaultFilter == "" {
		c.Branches.DefaultFilter = DefaultBranchFilter
	}
	if c.Theme.Name == "" {
		c.Theme.Name = DefaultThemeName
	}
}

// Validate checks enum fields and numeric ranges.
func (c *Config) Validate() error {
	if err := validateEnum(c.Reset.DefaultKind, "reset.default_kind", ValidResetKinds); err != nil {
		return err
	}
	if err := validateEnum(c.Branches.DefaultFilter, "branches.default_filter", ValidBranchFilters); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if c.Clone.Depth < 0 {
		return fmt.Errorf("invalid clone.depth %d: must be 0 or positive", c.Clone.Depth)
	}
	return nil
}

const defaultConfig = `# gitkit configuration

# Engine binary. The GITKIT_GIT environment variable overrides this.
# git_binary = "git"

# Identity used by commit-tree, ref and branch commands when the
# repository configuration has no user.name or user.email.
# [identity]
# name = "Your Name"
# email = "you@example.com"

# Defaults for "gitkit clone"
# [clone]
# bare = false
# depth = 0          # 0 = full history

# Defaults for "gitkit reset"
# [reset]
# default_kind = "mixed"   # soft, mixed or hard
# confirm = true           # ask before --hard when attached to a terminal

# Defaults for "gitkit branch list"
# [branches]
# default_filter = "all"   # local, remote or all

# [theme]
# name = "default"         # default or none

# A .gitkit.toml in a repository's work tree (or git directory for bare
# repositories) overrides [identity], [reset] and [branches] for that
# repository.
`

// Template returns the commented default config file content.
func Template() string {
	return defaultConfig
}

// Init writes a commented default config file and returns its path.
// An existing file is kept unless force is set.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}
	if err := storage.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
