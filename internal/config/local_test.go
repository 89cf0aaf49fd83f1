package config

import (
	"context"
	"strings"
	"testing"
)

func TestLoadLocal(t *testing.T) {
	t.Parallel()

	t.Run("no file", func(t *testing.T) {
		t.Parallel()
		local, err := LoadLocal(t.TempDir())
		if err != nil || local != nil {
			t.Errorf("LoadLocal() = %v, %v, want nil, nil", local, err)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, LocalConfigFileName, "[identity]\nemail = \"repo@example.com\"\n[reset]\nconfirm = false\n")
		local, err := LoadLocal(dir)
		if err != nil {
			t.Fatalf("LoadLocal() error = %v", err)
		}
		if local.Identity.Email != "repo@example.com" || local.Reset.Confirm == nil || *local.Reset.Confirm {
			t.Errorf("LoadLocal() = %+v", local)
		}
	})

	t.Run("global-only key rejected", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, LocalConfigFileName, "git_binary = \"/tmp/evil\"\n")
		if _, err := LoadLocal(dir); err == nil || !strings.Contains(err.Error(), "git_binary") {
			t.Errorf("LoadLocal() error = %v, want unsupported key", err)
		}
	})

	t.Run("invalid enum", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, LocalConfigFileName, "[branches]\ndefault_filter = \"tags\"\n")
		if _, err := LoadLocal(dir); err == nil || !strings.Contains(err.Error(), "branches.default_filter") {
			t.Errorf("LoadLocal() error = %v", err)
		}
	})
}

func TestMergeLocal(t *testing.T) {
	t.Parallel()
	global := Default()
	global.Identity = IdentityConfig{Name: "Global", Email: "global@example.com"}
	global.Clone.Depth = 5

	if got := MergeLocal(&global, nil); got != &global {
		t.Error("MergeLocal(nil) should return global unchanged")
	}

	off := false
	merged := MergeLocal(&global, &LocalConfig{
		Identity: IdentityConfig{Email: "repo@example.com"},
		Reset:    LocalReset{DefaultKind: "hard", Confirm: &off},
	})

	if merged.Identity.Name != "Global" || merged.Identity.Email != "repo@example.com" {
		t.Errorf("identity = %+v", merged.Identity)
	}
	if merged.Reset.DefaultKind != "hard" || merged.Reset.Confirm {
		t.Errorf("reset = %+v", merged.Reset)
	}
	if merged.Branches.DefaultFilter != "all" || merged.Clone.Depth != 5 {
		t.Errorf("inherited fields lost: %+v", merged)
	}
	if global.Identity.Email != "global@example.com" || !global.Reset.Confirm {
		t.Error("MergeLocal mutated the global config")
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()
	global := Default()
	r := NewResolver(&global)

	plain := t.TempDir()
	cfg, err := r.ForRepository(plain)
	if err != nil || cfg != &global {
		t.Errorf("ForRepository(no override) = %p, %v, want the global config", cfg, err)
	}

	dir := t.TempDir()
	writeFile(t, dir, LocalConfigFileName, "[branches]\ndefault_filter = \"remote\"\n")
	first, err := r.ForRepository(dir)
	if err != nil {
		t.Fatalf("ForRepository() error = %v", err)
	}
	if first.Branches.DefaultFilter != "remote" {
		t.Errorf("DefaultFilter = %q, want remote", first.Branches.DefaultFilter)
	}
	if second, _ := r.ForRepository(dir); second != first {
		t.Error("ForRepository() did not cache the merged config")
	}

	ctx := WithResolver(context.Background(), r)
	if ResolverFromContext(ctx) != r {
		t.Error("ResolverFromContext did not return the stored resolver")
	}
	if fallback := ResolverFromContext(context.Background()); fallback.Global().GitBinary != "git" {
		t.Error("fallback resolver should use defaults")
	}
}
