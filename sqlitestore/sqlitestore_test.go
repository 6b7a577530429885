package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byguide/byguide"
	"github.com/byguide/byguide/sqlitestore"
)

func newTestStore(t *testing.T) *sqlitestore.SQLiteStore {
	t.Helper()

	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "byguide.db"))
	require.NoError(t, err)

	store := sqlitestore.New(db, "posts")
	require.NoError(t, store.Init())

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testPost(slug, category string, created time.Time) *byguide.Post {
	return &byguide.Post{
		Title:        "Test " + slug,
		Slug:         slug,
		Content:      "Some review content.",
		Excerpt:      "Some review content.",
		Rating:       4.2,
		AffiliateURL: "https://example.com/" + slug,
		ImageURL:     "/images/" + slug + ".jpg",
		Category:     category,
		CreatedAt:    created,
	}
}

func TestSQLiteStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, testPost("desk-setup", "desk-setup", time.Time{}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "desk-setup", byID.Slug)
	assert.InDelta(t, 4.2, byID.Rating, 0.001)

	bySlug, err := store.GetBySlug(ctx, "desk-setup")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
}

func TestSQLiteStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetByID(ctx, 42)
	assert.ErrorIs(t, err, byguide.ErrPostNotFound)

	_, err = store.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, byguide.ErrPostNotFound)
}

func TestSQLiteStoreDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Create(ctx, testPost("desk-setup", "tech", time.Time{}))
	require.NoError(t, err)

	_, err = store.Create(ctx, testPost("desk-setup", "tech", time.Time{}))
	assert.ErrorIs(t, err, byguide.ErrSlugExists)
}

func TestSQLiteStoreSlugsWithPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, slug := range []string{"desk-setup", "desk-setup-1", "desk-setup-3", "quiet-keyboard"} {
		_, err := store.Create(ctx, testPost(slug, "tech", time.Time{}))
		require.NoError(t, err)
	}

	slugs, err := store.SlugsWithPrefix(ctx, "desk-setup")
	require.NoError(t, err)
	assert.Equal(t, []string{"desk-setup", "desk-setup-1", "desk-setup-3"}, slugs)

	slugs, err = store.SlugsWithPrefix(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestSQLiteStoreSlugsWithPrefixMatchesLiterally(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, slug := range []string{"desk-setup", "desk_setup"} {
		_, err := store.Create(ctx, testPost(slug, "tech", time.Time{}))
		require.NoError(t, err)
	}

	// "_" and "%" are LIKE wildcards and must not act as such in a prefix.
	slugs, err := store.SlugsWithPrefix(ctx, "desk_setup")
	require.NoError(t, err)
	assert.Equal(t, []string{"desk_setup"}, slugs)

	slugs, err = store.SlugsWithPrefix(ctx, "desk%")
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestSQLiteStoreOrderingAndCategories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	_, err := store.Create(ctx, testPost("oldest", "tech", base))
	require.NoError(t, err)
	_, err = store.Create(ctx, testPost("newest", "desk-setup", base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = store.Create(ctx, testPost("middle", "tech", base.Add(time.Hour)))
	require.NoError(t, err)

	posts, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Slug)
	assert.Equal(t, "middle", posts[1].Slug)
	assert.Equal(t, "oldest", posts[2].Slug)

	tech, err := store.ByCategory(ctx, "tech")
	require.NoError(t, err)
	require.Len(t, tech, 2)
	assert.Equal(t, "middle", tech[0].Slug)
	assert.Equal(t, "oldest", tech[1].Slug)
}

func TestSQLiteStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, testPost("desk-setup", "tech", time.Time{}))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.GetBySlug(ctx, "desk-setup")
	assert.ErrorIs(t, err, byguide.ErrPostNotFound)

	err = store.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, byguide.ErrPostNotFound)
}

func TestSQLiteStoreSlugReusableAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, testPost("desk-setup", "tech", time.Time{}))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, created.ID))

	again, err := store.Create(ctx, testPost("desk-setup", "tech", time.Time{}))
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, again.ID)
}
