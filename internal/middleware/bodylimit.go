package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/algocanvas/algocanvas/internal/httputil"
)

// MaxBodySize returns middleware that limits request body size. A declared
// Content-Length over the limit is rejected with 413 before any handler
// reads; chunked bodies are cut off by the reader instead.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			httputil.RespondErrorf(c, http.StatusRequestEntityTooLarge, "payload_too_large",
				"request body exceeds %d bytes", maxBytes)

			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
