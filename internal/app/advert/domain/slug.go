package domain

import (
	"strconv"

	"github.com/gosimple/slug"
)

// fallbackSlug is used when a title has no sluggable characters.
const fallbackSlug = "advert"

// Slugify derives the base slug for a title.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return fallbackSlug
	}
	return s
}

// SlugCandidate returns the n-th candidate for base: base itself for n <= 1,
// then base-2, base-3 and so on.
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
