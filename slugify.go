package byguide

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Slugify transforms a post title into a URL-friendly slug: lowercase
// alphanumerics separated by single hyphens, with no leading or trailing
// hyphen. Titles with no usable characters produce an empty string; callers
// must substitute FallbackSlug in that case.
//
// slug.Make keeps underscores, which the slug charset does not allow, so they
// are mapped to hyphens first. slug.Make then collapses and trims the runs.
func Slugify(title string) string {
	return slug.Make(strings.ReplaceAll(title, "_", "-"))
}

// FallbackSlug returns a time-based slug for titles that slugify to nothing.
// Uniqueness is assumed by construction, so collision resolution is skipped.
func FallbackSlug(t time.Time) string {
	return fmt.Sprintf("post-%d", t.UnixMilli())
}

// ResolveSlug picks a slug unique against the existing set. If no existing
// slug equals base, base is returned unchanged. Otherwise the result is
// base plus a numeric suffix one greater than the highest suffix already
// taken, where a bare match of base itself counts as suffix 1.
//
// The existing set is a snapshot; two concurrent publishes racing on the same
// base can still compute the same result. The store's unique slug index is
// what catches that (see Publish).
func ResolveSlug(base string, existing []string) string {
	if base == "" {
		return ""
	}

	taken := false
	for _, s := range existing {
		if s == base {
			taken = true
			break
		}
	}

	if !taken {
		return base
	}

	maxSuffix := 1
	prefix := base + "-"
	for _, s := range existing {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok || !allDigits(rest) {
			continue
		}

		if n, err := strconv.Atoi(rest); err == nil && n >= maxSuffix {
			maxSuffix = n + 1
		}
	}

	return fmt.Sprintf("%s-%d", base, maxSuffix)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
