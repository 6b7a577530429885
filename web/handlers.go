package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byguide/byguide"
)

const homeRecentLimit = 6

func (s *Server) home(c *gin.Context) {
	posts, err := s.guide.All(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	var featured []*byguide.Post
	for _, post := range posts {
		if post.Featured {
			featured = append(featured, post)
		}
	}

	recent := posts
	if len(recent) > homeRecentLimit {
		recent = recent[:homeRecentLimit]
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"title":      "ByGuide – Honest Gear Reviews for Students",
		"categories": s.guide.Categories(),
		"featured":   featured,
		"recent":     recent,
	})
}

func (s *Server) blog(c *gin.Context) {
	posts, err := s.guide.All(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	c.HTML(http.StatusOK, "blog.html", gin.H{
		"title": "All Reviews",
		"posts": posts,
	})
}

func (s *Server) postDetail(c *gin.Context) {
	post, err := s.guide.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, byguide.ErrPostNotFound) {
			s.renderError(c, http.StatusNotFound, "review not found")
			return
		}
		s.renderError(c, http.StatusInternalServerError, "failed to load review")
		return
	}

	etag := post.ETag()
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	content, err := byguide.RenderHTML(post.Content)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "failed to render review")
		return
	}

	c.HTML(http.StatusOK, "post.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"content": content,
	})
}

func (s *Server) category(c *gin.Context) {
	category, ok := s.guide.Categories().BySlug(c.Param("slug"))
	if !ok {
		s.renderError(c, http.StatusNotFound, "category not found")
		return
	}

	posts, err := s.guide.ByCategory(c.Request.Context(), category.Slug)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	c.HTML(http.StatusOK, "category.html", gin.H{
		"title":    category.Label,
		"category": category,
		"posts":    posts,
	})
}

func (s *Server) adminPage(c *gin.Context) {
	if !isAuthed(c, s.cfg.Admin) {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"title":    "ByGuide Admin – Sign in",
			"hasError": c.Query("error") == "1",
		})
		return
	}

	posts, err := s.guide.All(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"title":      "ByGuide Admin – Create Post",
		"posts":      posts,
		"categories": s.guide.Categories(),
		"error":      c.Query("msg"),
	})
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !s.cfg.Admin.Authenticate(username, password) {
		c.Redirect(http.StatusSeeOther, "/admin?error=1")
		return
	}

	maxAge := int(s.cfg.Admin.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.Admin.CookieName, sessionValue, maxAge, "/admin", "", false, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(s.cfg.Admin.CookieName, "", -1, "/admin", "", false, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (s *Server) createPost(c *gin.Context) {
	draft := byguide.Draft{
		Title:        c.PostForm("title"),
		Content:      c.PostForm("content"),
		Rating:       c.PostForm("rating"),
		AffiliateURL: c.PostForm("affiliateUrl"),
		ImageURL:     c.PostForm("imageUrl"),
		Category:     c.PostForm("category"),
		Verdict:      c.PostForm("verdict"),
		PriceHint:    c.PostForm("priceHint"),
		Featured:     c.PostForm("featured") == "on",
	}

	post, err := s.guide.Publish(c.Request.Context(), draft)
	if err != nil {
		if byguide.IsValidationErr(err) {
			c.Redirect(http.StatusSeeOther, "/admin?msg="+validationMessage(err))
			return
		}

		s.logger.Error("publish failed", slog.String("error", err.Error()))
		s.renderError(c, http.StatusInternalServerError, "failed to publish review")
		return
	}

	c.Redirect(http.StatusSeeOther, "/blog/"+post.Slug)
}

func (s *Server) deletePost(c *gin.Context) {
	err := s.guide.Retract(c.Request.Context(), c.PostForm("id"))
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/admin")
	case errors.Is(err, byguide.ErrInvalidPostID):
		s.renderError(c, http.StatusBadRequest, "invalid post id")
	case errors.Is(err, byguide.ErrPostNotFound):
		s.renderError(c, http.StatusNotFound, "post not found")
	default:
		s.logger.Error("retract failed", slog.String("error", err.Error()))
		s.renderError(c, http.StatusInternalServerError, "failed to delete review")
	}
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"title": "Something went wrong",
		"error": message,
	})
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, byguide.ErrMissingField):
		return "missing-field"
	case errors.Is(err, byguide.ErrInvalidRating):
		return "invalid-rating"
	default:
		return "invalid-input"
	}
}
