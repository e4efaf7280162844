package handler

import (
	"errors"
	"net/http"

	"workspace-service/internal/model/apperr"

	"github.com/gin-gonic/gin"
)

// respondError переводит доменные ошибки в HTTP-статусы.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrInvalidEditResult):
		status = http.StatusBadGateway
	case errors.Is(err, apperr.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
