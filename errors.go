package byguide

import "errors"

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidPostID = errors.New("invalid post id")
	ErrPostNotFound  = errors.New("post not found")
	ErrSlugExists    = errors.New("slug already exists")
	ErrInvalidReview = errors.New("invalid review file")
)

// IsValidationErr reports whether err is a rejected-input error rather than a
// store or not-found failure.
func IsValidationErr(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidPostID)
}
