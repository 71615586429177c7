package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/algocanvas/algocanvas/internal/httputil"
)

// respondError delegates to the shared error envelope so middleware
// rejections look like handler errors to clients.
func respondError(c *gin.Context, code int, errCode, message string) {
	httputil.RespondError(c, code, errCode, message)
}
