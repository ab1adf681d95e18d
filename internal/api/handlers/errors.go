package handlers

import (
	"errors"
	"net/http"

	"moto-rental/internal/services"
	"moto-rental/pkg/messaging"
	"moto-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidPlan),
		errors.Is(err, services.ErrInvalidLicenseType),
		errors.Is(err, services.ErrInvalidLicenseImage),
		errors.Is(err, services.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrMotorcycleNotFound),
		errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrRentalNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrActiveRentalConflict),
		errors.Is(err, services.ErrDuplicateLicensePlate),
		errors.Is(err, services.ErrDuplicateCNPJ),
		errors.Is(err, services.ErrDuplicateLicenseNumber),
		errors.Is(err, services.ErrDuplicateDriver),
		errors.Is(err, services.ErrMotorcycleHasRentals):
		return http.StatusConflict
	case errors.Is(err, services.ErrIneligibleDriver):
		return http.StatusUnprocessableEntity
	case errors.Is(err, messaging.ErrPublishFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Unexpected errors are logged and
// their detail is kept out of the response.
func respondError(c *gin.Context, logger *zap.Logger, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		utils.ErrorResponse(c, status, message, errors.New("internal error"))
		return
	}
	utils.ErrorResponse(c, status, message, err)
}

// bindJSON decodes and validates the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, validate *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return false
	}
	return true
}
