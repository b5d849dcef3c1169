package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrAlreadyRevealed):
		return http.StatusConflict, "already_revealed"
	case errors.Is(err, domain.ErrNoSuggestions):
		return http.StatusConflict, "no_suggestions"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence_failed"
	case errors.Is(err, domain.ErrFlightProviderUnavailable):
		return http.StatusServiceUnavailable, "provider_unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("api: %s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Error: msg})
}
