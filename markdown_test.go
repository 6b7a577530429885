package byguide_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byguide/byguide"
)

const tomlReview = `+++
title = "The Quiet Keyboard"
category = "tech"
rating = 4.5
image = "/images/keyboard.jpg"
affiliateUrl = "https://example.com/keyboard?tag=byguide"
verdict = "Quiet and tactile."
priceHint = "Around $60"
featured = true
+++

A keyboard that won't annoy your roommates.

## What works

- Quiet switches
`

const yamlReview = `---
title: "The Focus Timer"
category: "productivity"
rating: 4.8
image: "/images/timer.jpg"
affiliateUrl: "https://example.com/timer?tag=byguide"
---

A physical timer that keeps you off your phone.
`

func writeReview(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadReviewFileTOML(t *testing.T) {
	draft, err := byguide.ReadReviewFile(writeReview(t, "keyboard.md", tomlReview))
	require.NoError(t, err)

	assert.Equal(t, "The Quiet Keyboard", draft.Title)
	assert.Equal(t, "tech", draft.Category)
	assert.Equal(t, "4.5", draft.Rating)
	assert.Equal(t, "/images/keyboard.jpg", draft.ImageURL)
	assert.Equal(t, "https://example.com/keyboard?tag=byguide", draft.AffiliateURL)
	assert.Equal(t, "Quiet and tactile.", draft.Verdict)
	assert.Equal(t, "Around $60", draft.PriceHint)
	assert.True(t, draft.Featured)

	// The body keeps its markdown, minus the frontmatter fence.
	assert.Contains(t, draft.Content, "A keyboard that won't annoy your roommates.")
	assert.Contains(t, draft.Content, "## What works")
	assert.NotContains(t, draft.Content, "+++")
}

func TestReadReviewFileYAML(t *testing.T) {
	draft, err := byguide.ReadReviewFile(writeReview(t, "timer.md", yamlReview))
	require.NoError(t, err)

	assert.Equal(t, "The Focus Timer", draft.Title)
	assert.Equal(t, "productivity", draft.Category)
	assert.Equal(t, "4.8", draft.Rating)
	assert.False(t, draft.Featured)
	assert.NotContains(t, draft.Content, "---")
}

func TestReadReviewFileWithoutFrontmatter(t *testing.T) {
	_, err := byguide.ReadReviewFile(writeReview(t, "plain.md", "Just some text.\n"))
	assert.ErrorIs(t, err, byguide.ErrInvalidReview)
}

func TestReadReviewFileMissing(t *testing.T) {
	_, err := byguide.ReadReviewFile(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	html, err := byguide.RenderHTML("## Heading\n\nSome **bold** advice.")
	require.NoError(t, err)

	assert.Contains(t, string(html), "<h2")
	assert.Contains(t, string(html), "<strong>bold</strong>")
}
