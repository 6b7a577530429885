package byguide

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.abhg.dev/goldmark/frontmatter"
)

// ReviewMeta represents the frontmatter of a review file. Frontmatter may be
// TOML (+++ fences) or YAML (--- fences).
type ReviewMeta struct {
	Title        string  `yaml:"title" toml:"title"`
	Category     string  `yaml:"category,omitempty" toml:"category,omitempty"`
	Rating       float64 `yaml:"rating" toml:"rating"`
	Image        string  `yaml:"image" toml:"image"`
	AffiliateURL string  `yaml:"affiliateUrl" toml:"affiliateUrl"`
	Verdict      string  `yaml:"verdict,omitempty" toml:"verdict,omitempty"`
	PriceHint    string  `yaml:"priceHint,omitempty" toml:"priceHint,omitempty"`
	Featured     bool    `yaml:"featured,omitempty" toml:"featured,omitempty"`
}

// newMarkdown returns the goldmark instance used for review files and for
// rendering post content, with the following extensions:
// - GFM
// - Typographer
// - Frontmatter
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// RenderHTML converts post content from markdown to HTML for the detail view.
func RenderHTML(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ReadReviewFile reads a review markdown file and converts it to a Draft.
// The frontmatter supplies the review metadata; the body below the fence
// becomes the post content, kept as markdown so excerpts derive from the
// source text.
func ReadReviewFile(path string) (Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("failed to read review file: %w", err)
	}

	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := newMarkdown().Convert(data, &buf, parser.WithContext(ctx)); err != nil {
		return Draft{}, fmt.Errorf("failed to parse review file %s: %w", path, err)
	}

	fm := frontmatter.Get(ctx)
	if fm == nil {
		return Draft{}, fmt.Errorf("%w: %s has no frontmatter", ErrInvalidReview, path)
	}

	meta := ReviewMeta{}
	if err := fm.Decode(&meta); err != nil {
		return Draft{}, fmt.Errorf("%w: %s: %v", ErrInvalidReview, path, err)
	}

	return Draft{
		Title:        meta.Title,
		Content:      stripFrontmatter(string(data)),
		Rating:       strconv.FormatFloat(meta.Rating, 'f', -1, 64),
		AffiliateURL: meta.AffiliateURL,
		ImageURL:     meta.Image,
		Category:     meta.Category,
		Verdict:      meta.Verdict,
		PriceHint:    meta.PriceHint,
		Featured:     meta.Featured,
	}, nil
}

// stripFrontmatter removes the frontmatter block, returning the markdown body.
func stripFrontmatter(content string) string {
	for _, fence := range []string{"+++", "---"} {
		if !strings.HasPrefix(content, fence+"\n") {
			continue
		}

		rest := content[len(fence)+1:]
		if end := strings.Index(rest, "\n"+fence); end != -1 {
			body := rest[end+len(fence)+1:]
			return strings.TrimSpace(strings.TrimPrefix(body, "\n"))
		}
	}

	return strings.TrimSpace(content)
}
