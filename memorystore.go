package byguide

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryPostStore implements PostStore using in-memory storage. It backs
// tests and small deployments that don't need persistence across restarts.
// Reads hand out copies, so callers cannot mutate stored posts.
type MemoryPostStore struct {
	posts  map[int64]*Post
	slugs  map[string]int64
	nextID int64
	mu     sync.RWMutex
}

// NewMemoryPostStore creates a new MemoryPostStore.
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{
		posts: make(map[int64]*Post),
		slugs: make(map[string]int64),
	}
}

// Init initializes the post store
func (m *MemoryPostStore) Init() error {
	return nil
}

// Close closes the post store
func (m *MemoryPostStore) Close() error {
	return nil
}

// Create adds a new post to the store, assigning its ID and CreatedAt.
func (m *MemoryPostStore) Create(ctx context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.slugs[post.Slug]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSlugExists, post.Slug)
	}

	m.nextID++
	stored := *post
	stored.ID = m.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	m.posts[stored.ID] = &stored
	m.slugs[stored.Slug] = stored.ID

	return &stored, nil
}

// GetByID retrieves a post from the store by its ID.
func (m *MemoryPostStore) GetByID(ctx context.Context, id int64) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, fmt.Errorf("%w: id %d", ErrPostNotFound, id)
	}

	found := *post
	return &found, nil
}

// GetBySlug retrieves a post from the store by its slug.
func (m *MemoryPostStore) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.slugs[slug]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, slug)
	}

	found := *m.posts[id]
	return &found, nil
}

// SlugsWithPrefix returns all slugs starting with the given prefix.
func (m *MemoryPostStore) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []string
	for slug := range m.slugs {
		if strings.HasPrefix(slug, prefix) {
			matches = append(matches, slug)
		}
	}

	sort.Strings(matches)
	return matches, nil
}

// All returns every post, newest first.
func (m *MemoryPostStore) All(ctx context.Context) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]*Post, 0, len(m.posts))
	for _, post := range m.posts {
		found := *post
		posts = append(posts, &found)
	}

	sortNewestFirst(posts)
	return posts, nil
}

// ByCategory returns the posts in a category, newest first.
func (m *MemoryPostStore) ByCategory(ctx context.Context, category string) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []*Post
	for _, post := range m.posts {
		if post.Category == category {
			found := *post
			posts = append(posts, &found)
		}
	}

	sortNewestFirst(posts)
	return posts, nil
}

// Delete removes a post from the store.
func (m *MemoryPostStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return fmt.Errorf("%w: id %d", ErrPostNotFound, id)
	}

	delete(m.posts, id)
	delete(m.slugs, post.Slug)
	return nil
}

// sortNewestFirst orders posts by creation time descending, falling back to
// ID so the order stays stable for posts created within the same instant.
func sortNewestFirst(posts []*Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}
