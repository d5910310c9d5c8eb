package utils

import (
	"Bullpen/middleware"
	"Bullpen/services/nimmt"
	"Bullpen/services/registry"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrBadRequest wraps malformed input that never reached a room
var ErrBadRequest = errors.New("bad request")

// StatusFor maps domain errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrRoomNotFound),
		errors.Is(err, nimmt.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrWrongPassword),
		errors.Is(err, middleware.ErrMissingToken),
		errors.Is(err, middleware.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, nimmt.ErrNotAdmin),
		errors.Is(err, middleware.ErrTokenMismatch):
		return http.StatusForbidden
	case errors.Is(err, nimmt.ErrRoomFull),
		errors.Is(err, nimmt.ErrDuplicateName),
		errors.Is(err, nimmt.ErrGameStarted),
		errors.Is(err, nimmt.ErrAlreadySelected),
		errors.Is(err, nimmt.ErrResolutionInProgress),
		errors.Is(err, nimmt.ErrGameNotInProgress):
		return http.StatusConflict
	case errors.Is(err, nimmt.ErrRoomFaulted):
		return http.StatusInternalServerError
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, nimmt.ErrInvalidName),
		errors.Is(err, nimmt.ErrNotEnoughPlayers),
		errors.Is(err, nimmt.ErrCardNotHeld),
		errors.Is(err, nimmt.ErrNoPendingPenalty),
		errors.Is(err, nimmt.ErrInvalidPile),
		errors.Is(err, nimmt.ErrInvalidCard),
		errors.Is(err, nimmt.ErrDeckTooSmall):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler writes the last error attached with c.Error as {"error": "..."}
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[HTTP-ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
	}
}
