package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidResetKinds    = []string{"soft", "mixed", "hard"}
	ValidBranchFilters = []string{"local", "remote", "all"}
	ValidThemeNames    = []string{"default", "none"}
)

// ValidateResetKind validates a --kind flag value against ValidResetKinds.
func ValidateResetKind(kind string) error {
	return validateEnum(kind, "reset kind", ValidResetKinds)
}

// ValidateBranchFilter validates a --filter flag value against ValidBranchFilters.
func ValidateBranchFilter(filter string) error {
	return validateEnum(filter, "branch filter", ValidBranchFilters)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
