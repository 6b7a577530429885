package byguide

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Post represents a published product review.
type Post struct {
	ID           int64     `json:"id"`           // ID is assigned by the store
	Title        string    `json:"title"`        // Title is the review headline
	Slug         string    `json:"slug"`         // Slug is the URL-friendly identifier, unique across all posts
	Content      string    `json:"content"`      // Content is the full review body (markdown)
	Excerpt      string    `json:"excerpt"`      // Excerpt is a short preview derived from Content
	Rating       float64   `json:"rating"`       // Rating is clamped to [1, 5]
	AffiliateURL string    `json:"affiliateUrl"` // AffiliateURL is the outbound monetized link
	ImageURL     string    `json:"imageUrl"`     // ImageURL is the hero image
	Category     string    `json:"category"`     // Category is one of the site categories, default "tech"
	Verdict      string    `json:"verdict"`      // Verdict is a one-line takeaway
	PriceHint    string    `json:"priceHint"`    // PriceHint is a rough price range shown to readers
	Featured     bool      `json:"featured"`     // Featured is true if the post is highlighted on the home page
	CreatedAt    time.Time `json:"createdAt"`    // CreatedAt is assigned by the store at creation
}

// CreatedDate returns the creation date in the format Jan 2, 2006
func (p *Post) CreatedDate() string {
	if p.CreatedAt.IsZero() {
		return ""
	}
	return p.CreatedAt.Format("Jan 2, 2006")
}

// HasVerdict returns true if the post has a one-line verdict
func (p *Post) HasVerdict() bool {
	return p.Verdict != ""
}

// HasPriceHint returns true if the post has a price hint
func (p *Post) HasPriceHint() bool {
	return p.PriceHint != ""
}

// RatingLabel returns the rating formatted for display, e.g. "4.5 / 5"
func (p *Post) RatingLabel() string {
	return fmt.Sprintf("%.1f / 5", p.Rating)
}

// ETag returns the entity tag for the post content.
func (p *Post) ETag() string {
	hash := sha256.New()
	hash.Write([]byte(p.Content))
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// EstimatedReadTime estimates the reading time of the post content.
func (p *Post) EstimatedReadTime() string {
	const wordsPerMinute = float64(200)

	words := float64(len(strings.Fields(p.Content)))
	minutes := words / wordsPerMinute

	if minutes < 1 {
		return "< 1 min"
	} else if minutes < 60 {
		return fmt.Sprintf("%d min", int(minutes))
	} else {
		hours := minutes / 60
		minutes = minutes - (hours * 60)
		return fmt.Sprintf("%d hr %d min", int(hours), int(minutes))
	}
}

// Serialize serializes the post to a byte slice
func (p *Post) Serialize() ([]byte, error) {
	return json.Marshal(p)
}

// Deserialize deserializes the byte slice to a post
func Deserialize(data []byte) (*Post, error) {
	var post Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
