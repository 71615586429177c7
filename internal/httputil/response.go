// Package httputil holds the JSON error envelope shared by handlers and
// middleware.
package httputil

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// requestIDKey mirrors middleware.RequestIDKey; importing middleware here
// would create a cycle.
const requestIDKey = "request_id"

// ErrorBody is the JSON body of every non-2xx API response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorBody builds an error body tagged with the request's ID, if any.
func NewErrorBody(c *gin.Context, code, message string) ErrorBody {
	return ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	}
}

// RespondError writes an ErrorBody and aborts the handler chain.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, NewErrorBody(c, code, message))
}

// RespondErrorf is RespondError with a formatted message.
func RespondErrorf(c *gin.Context, status int, code, format string, args ...any) {
	RespondError(c, status, code, fmt.Sprintf(format, args...))
}
