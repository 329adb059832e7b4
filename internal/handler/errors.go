package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendtrack/internal/attendance"
	"attendtrack/internal/auth"
)

const genericError = "internal server error"

// respondError is the only place that turns an outcome into a status code.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *attendance.ValidationError
	var re *attendance.ReferenceError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &re):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": re.Error(), "field": re.Field})
	default:
		h.internal(c, err.Error())
	}
}

// badRequest reports a body that could not be decoded.
func (h *Handler) badRequest(c *gin.Context, err error) {
	var ve *attendance.ValidationError
	if errors.As(attendance.FromBindError(err), &ve) {
		h.respondError(c, ve)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON body: " + err.Error()})
}

func (h *Handler) internal(c *gin.Context, msg string) {
	log.Printf("Error: %s %s: %s", c.Request.Method, c.Request.URL.Path, msg)
	if h.hideInternal {
		msg = genericError
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// Recovery is the process-wide fallback for panics in any handler.
func (h *Handler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.internal(c, fmt.Sprint(recovered))
	})
}
