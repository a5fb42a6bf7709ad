package service

import (
	"context"
	"fmt"

	"inkpress/internal/common"
	"inkpress/internal/common/slugify"
)

// slugExistsFunc asks a repository whether slug is taken by a document other
// than excludeID.
type slugExistsFunc func(ctx context.Context, slug, excludeID string) (bool, error)

const maxSlugAttempts = 100

// uniqueSlug derives a slug from name and disambiguates collisions with a
// numeric suffix: base, base-2, base-3, … This check is best-effort advisory;
// the store's unique index rejects the write if a concurrent request claims
// the same slug first.
func uniqueSlug(ctx context.Context, name, excludeID string, exists slugExistsFunc) (string, error) {
	base, err := slugify.Derive(name)
	if err != nil {
		return "", err
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts; n++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug collision check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", common.Errorf("could not find a free slug for %q: %w", name, common.ErrConflict)
}
