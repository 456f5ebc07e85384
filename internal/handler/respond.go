package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"home-services-server/internal/models"
	"home-services-server/internal/utils"
)

func respondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": true, "message": message})
}

// handleServiceError maps domain errors onto the HTTP contract. Anything
// unrecognized is a storage or programming fault and surfaces as a generic
// 500 so internals never leak.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrReviewNotAllowed):
		respondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrSelfBooking),
		errors.Is(err, models.ErrAlreadyBooked),
		errors.Is(err, models.ErrAlreadyReviewed),
		errors.Is(err, models.ErrValidation):
		respondWithError(c, http.StatusBadRequest, err.Error())
	default:
		utils.GetLogger().Error("request failed", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

// identityEmail returns the verified email the auth middleware attached to
// the request context.
func identityEmail(c *gin.Context) string {
	return c.GetString(utils.ContextEmailKey)
}
