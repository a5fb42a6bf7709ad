// Package slugify derives URL-safe identifiers from display names.
//
// Derive is pure and deterministic; it does not guarantee uniqueness.
// Callers that persist slugs must check for collisions against their
// collection and disambiguate before writing.
package slugify

import (
	"strings"

	"inkpress/internal/common"
)

// Derive lowercases the name, strips every rune outside alphanumerics and
// spaces, and collapses runs of spaces into single hyphens. An input that is
// empty, or reduces to nothing after stripping, fails with ErrValidation.
func Derive(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", common.Errorf("slug source name is empty: %w", common.ErrValidation)
	}

	lowered := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	out := strings.Join(strings.Fields(b.String()), "-")
	if out == "" {
		return "", common.Errorf("name %q has no slug-safe characters: %w", name, common.ErrValidation)
	}
	return out, nil
}
