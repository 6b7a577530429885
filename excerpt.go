package byguide

import (
	"strings"
	"unicode"
)

const (
	excerptMaxLen = 200
	excerptCutLen = 197
)

// Excerpt derives the preview text shown on listing pages. Content up to 200
// characters is returned verbatim; longer content is cut at 197 characters,
// stripped of trailing whitespace, and marked with an ellipsis.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptMaxLen {
		return content
	}

	cut := strings.TrimRightFunc(string(runes[:excerptCutLen]), unicode.IsSpace)
	return cut + "..."
}
