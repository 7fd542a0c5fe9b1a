package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error onto an HTTP status. Business refusals
// are 400 so clients show the message instead of dropping the session,
// which they do on 401 and 403.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, shared.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrorValidation),
		errors.Is(err, shared.ErrorAlreadyExists),
		errors.Is(err, shared.ErrorNotAllowed),
		errors.Is(err, shared.ErrorInvalidLoginPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	msg := shared.Message(err)
	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
