package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

// MaxSlugLength caps generated slugs so URLs stay reasonable.
const MaxSlugLength = 80

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns free text into a URL-safe slug: lowercased, with runs of
// anything outside [a-z0-9] collapsed into single hyphens.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugLength {
		slug = strings.Trim(slug[:MaxSlugLength], "-")
	}
	if slug == "" {
		slug = "untitled"
	}

	return slug
}

// SlugWithSuffix appends a short random suffix, used to resolve slug
// collisions without failing the write.
func SlugWithSuffix(slug string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)

	return slug + "-" + hex.EncodeToString(buf)
}
