// internal/handlers/common_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gameshare/backend/internal/services"
)

func TestHandleServiceErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"asset too large", services.ErrAssetTooLarge, http.StatusRequestEntityTooLarge},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"invalid asset type", services.ErrInvalidAssetType, http.StatusBadRequest},
		{"incomplete submission", services.ErrIncompleteSubmission, http.StatusBadRequest},
		{"invalid rating", services.ErrInvalidRating, http.StatusBadRequest},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"account disabled", services.ErrAccountDisabled, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
