package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"workspace-service/internal/model/apperr"
	"workspace-service/internal/service/fileService"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func statusFor(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w.Code
}

func TestRespondError_StatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, statusFor(apperr.ErrForbidden))
	assert.Equal(t, http.StatusNotFound, statusFor(apperr.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(apperr.ErrConflict))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(apperr.ErrUpstreamUnavailable))
	assert.Equal(t, http.StatusBadGateway, statusFor(apperr.ErrInvalidEditResult))
	assert.Equal(t, http.StatusBadRequest, statusFor(apperr.ErrInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestRespondError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("file %q: %w", "plan.md", apperr.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, statusFor(wrapped))
}

func TestRespondError_UploadValidation(t *testing.T) {
	const limit = 10 << 20

	// превышение лимита и неподдерживаемый тип — ошибки клиента, не сервера
	assert.Equal(t, http.StatusBadRequest,
		statusFor(fileService.ValidateUpload("big.pdf", limit+1, limit)))
	assert.Equal(t, http.StatusBadRequest,
		statusFor(fileService.ValidateUpload("image.png", 1024, limit)))
}
