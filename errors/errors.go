package errors

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the application error type carrying an HTTP status
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	InActiveUserError  = New("user is inactive", http.StatusUnauthorized)
	ErrNotFound        = New("record not found", http.StatusNotFound)
	ErrUserNotFound    = New("user not found", http.StatusNotFound)
	ErrInvalidPoints   = New("points must not be negative", http.StatusBadRequest)
	ErrLowBalance      = New("insufficient point balance", http.StatusBadRequest)
	ErrBadStatus       = New("invalid status transition", http.StatusConflict)
	ErrInternalServer  = New("internal server error", http.StatusInternalServerError)
	ErrUnauthorized    = New("unauthorized", http.StatusUnauthorized)
)

// ErrorHandler responds to rate-limited requests
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error": "too many requests, try again in " + time.Until(info.ResetTime).String(),
	})
}
