// Package usecases holds helpers shared by the advert command interactors.
package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

// maxSlugAttempts bounds how many commits are retried when a concurrent
// writer claims the chosen slug between the check and the write.
const maxSlugAttempts = 3

// SlugChecker reports whether a slug is already used.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
}

// UniqueSlug returns the first free candidate for title: base, base-2, base-3...
// Slugs held by advertID count as free, so a renamed advert keeps its base.
func UniqueSlug(ctx context.Context, slugs SlugChecker, title, advertID string) (string, error) {
	base := domain.Slugify(title)
	for n := 1; ; n++ {
		candidate := domain.SlugCandidate(base, n)
		taken, err := slugs.SlugExists(ctx, candidate, advertID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

// WithSlugRetry runs write until it stops failing with domain.ErrSlugTaken,
// up to maxSlugAttempts times. write receives a freshly allocated slug.
func WithSlugRetry(ctx context.Context, slugs SlugChecker, title, advertID string, write func(slug string) error) error {
	var err error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		var slug string
		slug, err = UniqueSlug(ctx, slugs, title, advertID)
		if err != nil {
			return err
		}
		err = write(slug)
		if !errors.Is(err, domain.ErrSlugTaken) {
			return err
		}
	}
	return err
}
