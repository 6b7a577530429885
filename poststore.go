package byguide

import "context"

type PostStore interface {
	// Init initializes the post store, such as creating the necessary tables or buckets.
	Init() error
	// Create persists a new post, assigning its ID and CreatedAt. It returns
	// ErrSlugExists if the slug is already taken.
	Create(ctx context.Context, post *Post) (*Post, error)
	// GetByID retrieves a post by its ID.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// GetBySlug retrieves a post by its slug.
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	// SlugsWithPrefix returns all existing slugs that start with the given prefix.
	SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
	// All returns every post, newest first.
	All(ctx context.Context) ([]*Post, error)
	// ByCategory returns the posts in a category, newest first.
	ByCategory(ctx context.Context, category string) ([]*Post, error)
	// Delete removes a post by its ID. It returns ErrPostNotFound if no such
	// post exists.
	Delete(ctx context.Context, id int64) error
	// Close closes the post store.
	Close() error
}
