package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "user-directory-service/pkg/errors"
)

// timestampLayout is the wire format of error timestamps.
const timestampLayout = "2006-01-02T15:04:05"

// ErrorResponse is the uniform error payload returned to clients.
type ErrorResponse struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

// writeError emits the uniform error payload for the given status code.
func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().Format(timestampLayout),
	})
}

// respondError translates an application error into an HTTP response.
// Typed errors carry their own status; anything else is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status = statuser.HTTPStatus()
	}
	writeError(c, status, err.Error())
}
