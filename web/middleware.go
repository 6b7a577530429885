package web

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byguide/byguide"
)

const sessionValue = "true"

// AuthRequired gates a route on the admin session cookie. The credential and
// cookie settings come from the injected AdminConfig; nothing here reads the
// environment.
func AuthRequired(admin byguide.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(admin.CookieName)
		if err != nil || value != sessionValue {
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
			return
		}

		c.Next()
	}
}

func isAuthed(c *gin.Context, admin byguide.AdminConfig) bool {
	value, err := c.Cookie(admin.CookieName)
	return err == nil && value == sessionValue
}

// cached serves a page from the view cache when present, and captures the
// rendered response for next time otherwise. Only successful responses are
// cached; errors and misses always re-render. A cached page that carries an
// entity tag answers matching If-None-Match requests with 304.
func (s *Server) cached(key func(*gin.Context) string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		routeKey := key(c)
		if page, ok := s.cache.Get(routeKey); ok {
			if page.ETag != "" {
				c.Header("ETag", page.ETag)
				if c.GetHeader("If-None-Match") == page.ETag {
					c.Status(http.StatusNotModified)
					return
				}
			}

			c.Data(http.StatusOK, "text/html; charset=utf-8", page.Body)
			return
		}

		capture := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = capture

		handler(c)

		if capture.Status() == http.StatusOK {
			s.cache.Set(routeKey, byguide.Page{
				Body: capture.buf.Bytes(),
				ETag: capture.Header().Get("ETag"),
			})
		}
	}
}

// captureWriter tees the response body so it can be cached after rendering.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
