package byguide

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft holds the raw form fields for a post waiting to be published. Rating
// arrives as text and is parsed and clamped during validation.
type Draft struct {
	Title        string
	Content      string
	Rating       string
	AffiliateURL string
	ImageURL     string
	Category     string
	Verdict      string
	PriceHint    string
	Featured     bool
}

const (
	minRating = 1
	maxRating = 5
)

// validate trims the draft in place and returns the parsed, clamped rating.
// All checks run before any store mutation, so a failed draft leaves no
// partial state behind.
func (d *Draft) validate() (float64, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Rating = strings.TrimSpace(d.Rating)
	d.AffiliateURL = strings.TrimSpace(d.AffiliateURL)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Category = strings.TrimSpace(d.Category)

	if d.Category == "" {
		d.Category = DefaultCategorySlug
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", d.Title},
		{"content", d.Content},
		{"rating", d.Rating},
		{"affiliateUrl", d.AffiliateURL},
		{"imageUrl", d.ImageURL},
	} {
		if field.value == "" {
			return 0, fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}

	rating, err := strconv.ParseFloat(d.Rating, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidRating, d.Rating)
	}

	return clampRating(rating), nil
}

// parsePostID parses the raw identifier submitted with a retraction form.
func parsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPostID, raw)
	}
	return id, nil
}

// clampRating forces the rating into [1, 5]. Out-of-range values are clamped,
// not rejected.
func clampRating(r float64) float64 {
	if r < minRating {
		return minRating
	}
	if r > maxRating {
		return maxRating
	}
	return r
}
