package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repository override file.
const LocalConfigFileName = ".gitkit.toml"

// LocalConfig holds per-repository overrides. Zero values and nil
// pointers mean "inherit from the global config".
type LocalConfig struct {
	Identity IdentityConfig `toml:"identity"`
	Reset    LocalReset     `toml:"reset"`
	Branches BranchesConfig `toml:"branches"`
}

// LocalReset holds reset overrides.
type LocalReset struct {
	DefaultKind string `toml:"default_kind"`
	Confirm     *bool  `toml:"confirm"`
}

// LoadLocal reads .gitkit.toml from dir. It returns nil and no error when
// the file does not exist.
func LoadLocal(dir string) (*LocalConfig, error) {
	path := filepath.Join(dir, LocalConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var local LocalConfig
	md, err := toml.Decode(string(data), &local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unsupported key %q (only identity, reset and branches can be overridden)", path, undecoded[0].String())
	}

	if err := validateEnum(local.Reset.DefaultKind, "reset.default_kind", ValidResetKinds); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := validateEnum(local.Branches.DefaultFilter, "branches.default_filter", ValidBranchFilters); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &local, nil
}
