package config

// MergeLocal overlays a per-repository config on the global one and
// returns a new Config. global is not modified; a nil local returns it
// unchanged.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Fields LocalConfig cannot set (git_binary, clone, theme) carry over
	// through the copy.
	merged := *global

	if local.Identity.Name != "" {
		merged.Identity.Name = local.Identity.Name
	}
	if local.Identity.Email != "" {
		merged.Identity.Email = local.Identity.Email
	}
	if local.Reset.DefaultKind != "" {
		merged.Reset.DefaultKind = local.Reset.DefaultKind
	}
	if local.Reset.Confirm != nil {
		merged.Reset.Confirm = *local.Reset.Confirm
	}
	if local.Branches.DefaultFilter != "" {
		merged.Branches.DefaultFilter = local.Branches.DefaultFilter
	}
	return &merged
}
