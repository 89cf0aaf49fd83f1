// Package config handles loading and validation of gitkit configuration.
//
// Configuration is read from ~/.config/gitkit/config.toml (GITKIT_CONFIG
// overrides the location). A missing file means defaults.
//
// # Sources (highest priority first)
//
//   - GITKIT_GIT env var: engine binary
//   - .gitkit.toml in the repository ([identity], [reset], [branches] only)
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - git_binary: engine executable (default: "git")
//   - identity.name, identity.email: fallback commit identity
//   - clone.bare, clone.depth: clone defaults
//   - reset.default_kind: "soft", "mixed" or "hard" (default: "mixed")
//   - branches.default_filter: "local", "remote" or "all" (default: "all")
//   - theme.name: "default" or "none"
package config
