package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunexus-app/backend/pkg/apperror"
)

// Envelope is the JSON shape every endpoint responds with.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination info for list endpoints.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewMeta(page, limit int, total int64) *Meta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{Page: page, Limit: limit, Total: total, Pages: pages}
}

func OK(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Success: true, Message: message})
}

func Paginated(c *gin.Context, data any, meta *Meta) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

// Error maps err to a status code and writes the error envelope.
// Internal errors are logged and their detail hidden in release mode.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if gin.Mode() == gin.ReleaseMode {
			message = apperror.ErrInternal.Error()
		}
	}

	c.JSON(code, Envelope{Success: false, Message: message})
}
