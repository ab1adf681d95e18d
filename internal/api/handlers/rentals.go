package handlers

import (
	"net/http"

	"moto-rental/internal/repository"
	"moto-rental/internal/services"
	"moto-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type RentalHandler struct {
	rentalService *services.RentalService
	validator     *validator.Validate
	logger        *zap.Logger
}

func NewRentalHandler(rentalService *services.RentalService, logger *zap.Logger) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		validator:     validator.New(),
		logger:        logger,
	}
}

// GetPlans lists the rental plans and their daily rates.
func (h *RentalHandler) GetPlans(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Rental plans retrieved successfully", h.rentalService.Plans())
}

func (h *RentalHandler) CreateRental(c *gin.Context) {
	var req services.CreateRentalRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	rental, err := h.rentalService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create rental", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Rental created successfully", rental)
}

// GetRentals lists rentals, optionally filtered by ?driverId= and ?motorcycleId=.
func (h *RentalHandler) GetRentals(c *gin.Context) {
	filter := repository.RentalFilter{
		DriverID:     c.Query("driverId"),
		MotorcycleID: c.Query("motorcycleId"),
	}

	rentals, err := h.rentalService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve rentals", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rentals retrieved successfully", rentals)
}

func (h *RentalHandler) GetRental(c *gin.Context) {
	rental, err := h.rentalService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve rental", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rental retrieved successfully", rental)
}

// QuoteReturn computes what returning on the given date would cost without
// changing the rental.
func (h *RentalHandler) QuoteReturn(c *gin.Context) {
	var req services.ReturnRentalRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	returnDate, err := services.ParseDate(req.ReturnDate)
	if err != nil {
		respondError(c, h.logger, "Invalid return date", err)
		return
	}

	quote, err := h.rentalService.CalculateSettlement(c.Request.Context(), c.Param("id"), returnDate)
	if err != nil {
		respondError(c, h.logger, "Failed to calculate settlement", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settlement calculated successfully", quote)
}

func (h *RentalHandler) ReturnRental(c *gin.Context) {
	var req services.ReturnRentalRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	returnDate, err := services.ParseDate(req.ReturnDate)
	if err != nil {
		respondError(c, h.logger, "Invalid return date", err)
		return
	}

	rental, err := h.rentalService.Settle(c.Request.Context(), c.Param("id"), returnDate)
	if err != nil {
		respondError(c, h.logger, "Failed to settle rental", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rental settled successfully", rental)
}
