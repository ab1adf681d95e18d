package handlers

import (
	"fmt"
	"io"
	"net/http"

	"moto-rental/internal/services"
	"moto-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MaxLicenseImageSize caps license image uploads.
const MaxLicenseImageSize = 5 << 20

type DriverHandler struct {
	driverService *services.DriverService
	validator     *validator.Validate
	logger        *zap.Logger
}

func NewDriverHandler(driverService *services.DriverService, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		validator:     validator.New(),
		logger:        logger,
	}
}

func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req services.CreateDriverRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create delivery driver", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Delivery driver created successfully", driver)
}

func (h *DriverHandler) GetDrivers(c *gin.Context) {
	drivers, err := h.driverService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve delivery drivers", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Delivery drivers retrieved successfully", drivers)
}

func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve delivery driver", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Delivery driver retrieved successfully", driver)
}

// UploadLicenseImage accepts a multipart form with the picture in the
// "image" field.
func (h *DriverHandler) UploadLicenseImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxLicenseImageSize+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "License image is required", err)
		return
	}
	if header.Size > MaxLicenseImageSize {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "License image is too large",
			fmt.Errorf("image exceeds %d bytes", MaxLicenseImageSize))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, "Failed to read license image", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, MaxLicenseImageSize))
	if err != nil {
		respondError(c, h.logger, "Failed to read license image", err)
		return
	}

	driver, err := h.driverService.UploadLicenseImage(c.Request.Context(), c.Param("id"), header.Filename, content)
	if err != nil {
		respondError(c, h.logger, "Failed to upload license image", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "License image uploaded successfully", driver)
}
