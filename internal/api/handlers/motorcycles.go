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

type MotorcycleHandler struct {
	motorcycleService *services.MotorcycleService
	validator         *validator.Validate
	logger            *zap.Logger
}

func NewMotorcycleHandler(motorcycleService *services.MotorcycleService, logger *zap.Logger) *MotorcycleHandler {
	return &MotorcycleHandler{
		motorcycleService: motorcycleService,
		validator:         validator.New(),
		logger:            logger,
	}
}

// CreateMotorcycle registers a motorcycle and announces it. When the
// announcement fails the stored motorcycle is still returned, with a 502.
func (h *MotorcycleHandler) CreateMotorcycle(c *gin.Context) {
	var req services.CreateMotorcycleRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	motorcycle, err := h.motorcycleService.Create(c.Request.Context(), &req)
	if err != nil {
		if motorcycle != nil && errors.Is(err, messaging.ErrPublishFailure) {
			h.logger.Warn("motorcycle stored but registration event not published",
				zap.String("motorcycle_id", motorcycle.ID), zap.Error(err))
			utils.ErrorResponse(c, http.StatusBadGateway, "Motorcycle stored but registration event could not be published", err, motorcycle)
			return
		}
		respondError(c, h.logger, "Failed to create motorcycle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Motorcycle created successfully", motorcycle)
}

// GetMotorcycles lists motorcycles, optionally filtered by ?licensePlate=.
func (h *MotorcycleHandler) GetMotorcycles(c *gin.Context) {
	motorcycles, err := h.motorcycleService.List(c.Request.Context(), c.Query("licensePlate"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve motorcycles", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Motorcycles retrieved successfully", motorcycles)
}

func (h *MotorcycleHandler) GetMotorcycle(c *gin.Context) {
	motorcycle, err := h.motorcycleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve motorcycle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Motorcycle retrieved successfully", motorcycle)
}

func (h *MotorcycleHandler) UpdateLicensePlate(c *gin.Context) {
	var req services.UpdateLicensePlateRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	motorcycle, err := h.motorcycleService.UpdateLicensePlate(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update license plate", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "License plate updated successfully", motorcycle)
}

func (h *MotorcycleHandler) DeleteMotorcycle(c *gin.Context) {
	if err := h.motorcycleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "Failed to delete motorcycle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Motorcycle deleted successfully", nil)
}
