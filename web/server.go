package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byguide/byguide"
)

// Server wires the review engine into the public site and the admin surface.
// Redirects happen here, never inside the engine.
type Server struct {
	guide  *byguide.ByGuide
	cfg    *byguide.Config
	cache  *byguide.PageCache
	logger *slog.Logger
	router *gin.Engine
}

// NewServer builds the gin router, loads the HTML templates, and registers
// the routes. The cache must be the same Invalidator handed to the engine,
// otherwise publishes won't evict stale pages.
func NewServer(guide *byguide.ByGuide, cfg *byguide.Config, cache *byguide.PageCache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.LoadHTMLGlob(cfg.Templates)

	s := &Server{
		guide:  guide,
		cfg:    cfg,
		cache:  cache,
		logger: logger,
		router: router,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	r := s.router

	r.GET("/", s.cached(staticKey(byguide.RouteHome), s.home))
	r.GET("/blog", s.cached(staticKey(byguide.RouteBlog), s.blog))
	r.GET("/blog/:slug", s.cached(slugKey(byguide.RoutePost), s.postDetail))
	r.GET("/category/:slug", s.cached(slugKey(byguide.RouteCategory), s.category))

	r.GET("/admin", s.adminPage)
	r.POST("/admin/login", s.login)
	r.POST("/admin/logout", s.logout)

	posts := r.Group("/admin/posts")
	posts.Use(AuthRequired(s.cfg.Admin))
	{
		posts.POST("", s.createPost)
		posts.POST("/delete", s.deletePost)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting server", slog.String("addr", s.cfg.Addr))
	return s.router.Run(s.cfg.Addr)
}

func staticKey(key string) func(*gin.Context) string {
	return func(*gin.Context) string { return key }
}

func slugKey(route func(string) string) func(*gin.Context) string {
	return func(c *gin.Context) string { return route(c.Param("slug")) }
}
