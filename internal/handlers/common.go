// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gameshare/backend/internal/services"
	"github.com/gameshare/backend/internal/utils"
)

// handleServiceError maps service errors onto the API error envelope.
// Validation mistakes surface as 400s; anything unexpected is logged with
// its cause and reported as an opaque 500.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrAssetTooLarge):
		utils.PayloadTooLargeResponse(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidAssetType),
		errors.Is(err, services.ErrIncompleteSubmission),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidComment):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountNotVerified),
		errors.Is(err, services.ErrAccountDisabled):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		if validationErrors := utils.GetValidationErrors(errors.Unwrap(err)); len(validationErrors) > 0 {
			utils.ValidationErrorResponse(c, validationErrors)
			return
		}
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// currentUserID parses the authenticated user id out of the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}
