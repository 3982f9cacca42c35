package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"netabase/internal/cache"
)

// bodyCapture tees the response body so a successful render can be stored.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CachePage serves GET responses from the cache keyed on the full request
// URI, storing successful JSON renders with the given TTL. Entries expire by
// TTL only; list pages tolerate that much staleness.
func CachePage(store cache.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "view:" + c.Request.URL.RequestURI()

		if cached, err := store.Get(c.Request.Context(), key); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if c.Writer.Status() == http.StatusOK && capture.buf.Len() > 0 {
			// Best effort; a cache write failure must not fail the response.
			_ = store.Set(c.Request.Context(), key, capture.buf.Bytes(), ttl)
		}
	}
}
