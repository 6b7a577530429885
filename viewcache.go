package byguide

import "sync"

// Invalidator receives cache invalidation signals for rendered views. The
// signal is fire and forget; the engine never reads anything back.
type Invalidator interface {
	Invalidate(routeKey string)
}

// Route keys for the rendered views the engine knows about.
const (
	RouteHome = "home"
	RouteBlog = "blog"
)

// RoutePost returns the route key for a post detail view.
func RoutePost(slug string) string {
	return "blog/" + slug
}

// RouteCategory returns the route key for a category listing view.
func RouteCategory(slug string) string {
	return "category/" + slug
}

// NopInvalidator discards all invalidation signals.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(string) {}

// Page is a rendered view held by the cache, along with the entity tag the
// handler attached to it. The tag lets cache hits answer conditional requests.
type Page struct {
	Body []byte
	ETag string
}

// PageCache caches rendered pages by route key until the next publish or
// retraction invalidates them. The presentation layer re-renders on the next
// request after an invalidation.
type PageCache struct {
	pages map[string]Page
	mu    sync.RWMutex
}

// NewPageCache creates an empty PageCache.
func NewPageCache() *PageCache {
	return &PageCache{
		pages: make(map[string]Page),
	}
}

// Get returns the cached page for a route key, if present.
func (pc *PageCache) Get(routeKey string) (Page, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	page, ok := pc.pages[routeKey]
	return page, ok
}

// Set stores a rendered page under a route key.
func (pc *PageCache) Set(routeKey string, page Page) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.pages[routeKey] = page
}

// Invalidate drops the cached page for a route key.
func (pc *PageCache) Invalidate(routeKey string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	delete(pc.pages, routeKey)
}

// Clear drops every cached page.
func (pc *PageCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.pages = make(map[string]Page)
}

// Len returns the number of cached pages.
func (pc *PageCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return len(pc.pages)
}
