package byguide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// ByGuide is the main struct for the review blog engine. It owns the
// publish/retract pipeline and hands cache invalidation signals to the
// presentation layer.
type ByGuide struct {
	store      PostStore
	cache      Invalidator
	categories Categories
	logger     *slog.Logger
	now        func() time.Time
}

// Options is a struct for configuring a new ByGuide instance.
type Options struct {
	Store      PostStore        // Store is the post store. Required.
	Cache      Invalidator      // Cache receives invalidation signals. Default is a no-op.
	Categories Categories       // Categories is the fixed category set. Default is DefaultCategories.
	Logger     *slog.Logger     // Logger is the logger used by ByGuide. Default is a debug logger to stderr.
	Now        func() time.Time // Now supplies the current time. Default is time.Now.
}

// NewByGuide creates a new ByGuide instance with the provided options.
func NewByGuide(opts Options) (*ByGuide, error) {
	if opts.Store == nil {
		return nil, errors.New("Store is required")
	}

	if opts.Cache == nil {
		opts.Cache = NopInvalidator{}
	}

	if opts.Categories == nil {
		opts.Categories = DefaultCategories()
	}

	if opts.Logger == nil {
		opts.Logger = defaultLogger()
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ByGuide{
		store:      opts.Store,
		cache:      opts.Cache,
		categories: opts.Categories,
		logger:     opts.Logger,
		now:        opts.Now,
	}, nil
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}))
}

// Categories returns the fixed category set for the site.
func (bg *ByGuide) Categories() Categories {
	return bg.categories
}

// Publish validates a draft, assigns it a unique slug, derives its excerpt,
// persists it, and invalidates the affected listing and detail views. The
// caller decides where to navigate based on the returned post.
func (bg *ByGuide) Publish(ctx context.Context, draft Draft) (*Post, error) {
	rating, err := draft.validate()
	if err != nil {
		return nil, err
	}

	base := Slugify(draft.Title)
	finalSlug, err := bg.assignSlug(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("error assigning slug: %w", err)
	}

	post := &Post{
		Title:        draft.Title,
		Slug:         finalSlug,
		Content:      draft.Content,
		Excerpt:      Excerpt(draft.Content),
		Rating:       rating,
		AffiliateURL: draft.AffiliateURL,
		ImageURL:     draft.ImageURL,
		Category:     draft.Category,
		Verdict:      draft.Verdict,
		PriceHint:    draft.PriceHint,
		Featured:     draft.Featured,
	}

	created, err := bg.store.Create(ctx, post)
	if errors.Is(err, ErrSlugExists) && base != "" {
		// Lost a race against a concurrent publish with the same title.
		// Recompute against the fresh slug set and retry once.
		finalSlug, err = bg.assignSlug(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("error reassigning slug: %w", err)
		}

		post.Slug = finalSlug
		created, err = bg.store.Create(ctx, post)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	bg.cache.Invalidate(RouteHome)
	bg.cache.Invalidate(RouteBlog)
	bg.cache.Invalidate(RoutePost(created.Slug))
	bg.cache.Invalidate(RouteCategory(created.Category))

	bg.logger.Info("published post",
		slog.Int64("id", created.ID),
		slog.String("slug", created.Slug),
		slog.String("category", created.Category))

	return created, nil
}

// assignSlug turns a base slug candidate into the final slug. An empty base
// means the title had no usable characters, so a time-based fallback is used
// and collision resolution is skipped.
func (bg *ByGuide) assignSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		return FallbackSlug(bg.now()), nil
	}

	existing, err := bg.store.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", fmt.Errorf("error querying existing slugs: %w", err)
	}

	return ResolveSlug(base, existing), nil
}

// Retract deletes the post with the given raw identifier and invalidates the
// listing views plus the post's own detail and category views. It returns
// ErrInvalidPostID for an unparseable identifier and ErrPostNotFound if no
// such post exists.
func (bg *ByGuide) Retract(ctx context.Context, rawID string) error {
	id, err := parsePostID(rawID)
	if err != nil {
		return err
	}

	// The cache holds rendered pages until told otherwise, so the slug and
	// category must be known before the post is gone.
	post, err := bg.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bg.store.Delete(ctx, id); err != nil {
		return err
	}

	bg.cache.Invalidate(RouteHome)
	bg.cache.Invalidate(RouteBlog)
	bg.cache.Invalidate(RoutePost(post.Slug))
	bg.cache.Invalidate(RouteCategory(post.Category))

	bg.logger.Info("retracted post",
		slog.Int64("id", id),
		slog.String("slug", post.Slug))

	return nil
}

// GetBySlug retrieves a single post for the detail view.
func (bg *ByGuide) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return bg.store.GetBySlug(ctx, slug)
}

// All returns every post, newest first.
func (bg *ByGuide) All(ctx context.Context) ([]*Post, error) {
	return bg.store.All(ctx)
}

// ByCategory returns the posts in a category, newest first.
func (bg *ByGuide) ByCategory(ctx context.Context, category string) ([]*Post, error) {
	return bg.store.ByCategory(ctx, category)
}

// Close closes the underlying store.
func (bg *ByGuide) Close() error {
	return bg.store.Close()
}
