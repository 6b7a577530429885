package byguide_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byguide/byguide"
)

func TestSeedImportsSampleReviews(t *testing.T) {
	ctx := context.Background()
	store := byguide.NewMemoryPostStore()
	guide, _ := newTestGuide(t, store)

	count, err := guide.Seed(ctx, "seed")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	posts, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	bySlug := make(map[string]*byguide.Post, len(posts))
	for _, p := range posts {
		bySlug[p.Slug] = p
	}

	desk, ok := bySlug["the-compact-student-desk-setup-that-actually-fits-in-a-dorm"]
	require.True(t, ok)
	assert.Equal(t, "desk-setup", desk.Category)
	assert.True(t, desk.Featured)
	assert.InDelta(t, 4.7, desk.Rating, 0.001)
	assert.NotEmpty(t, desk.Excerpt)

	// Seeding is a no-op when the store already has posts.
	count, err = guide.Seed(ctx, "seed")
	require.NoError(t, err)
	assert.Zero(t, count)

	posts, err = store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestSeedMissingDirectory(t *testing.T) {
	guide, _ := newTestGuide(t, byguide.NewMemoryPostStore())

	_, err := guide.Seed(context.Background(), "does-not-exist")
	assert.Error(t, err)
}
