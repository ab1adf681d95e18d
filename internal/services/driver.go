package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/repository"
	"moto-rental/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accepted license image formats keyed by file extension.
var licenseImageTypes = map[string]string{
	".png": "image/png",
	".bmp": "image/bmp",
}

type DriverService struct {
	drivers DriverStore
	files   storage.FileStore
	now     func() time.Time
	logger  *zap.Logger
}

func NewDriverService(drivers DriverStore, files storage.FileStore, logger *zap.Logger) *DriverService {
	return &DriverService{
		drivers: drivers,
		files:   files,
		now:     time.Now,
		logger:  logger.With(zap.String("component", "driver_service")),
	}
}

type CreateDriverRequest struct {
	Identifier    string `json:"identifier" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=100"`
	CNPJ          string `json:"cnpj" validate:"required,max=20"`
	BirthDate     string `json:"birthDate" validate:"required"`
	LicenseNumber string `json:"licenseNumber" validate:"required,max=20"`
	LicenseType   string `json:"licenseType" validate:"required"`
}

func (s *DriverService) Create(ctx context.Context, req *CreateDriverRequest) (*models.DeliveryDriver, error) {
	licenseType := strings.ToUpper(strings.TrimSpace(req.LicenseType))
	if !models.IsValidLicenseType(licenseType) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidLicenseType, req.LicenseType)
	}

	birthDate, err := ParseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	cnpj := strings.TrimSpace(req.CNPJ)
	licenseNumber := strings.TrimSpace(req.LicenseNumber)

	if err := s.ensureUnique(ctx, s.drivers.FindByCNPJ, cnpj, ErrDuplicateCNPJ); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, s.drivers.FindByLicenseNumber, licenseNumber, ErrDuplicateLicenseNumber); err != nil {
		return nil, err
	}

	driver := &models.DeliveryDriver{
		ID:            uuid.NewString(),
		Identifier:    strings.TrimSpace(req.Identifier),
		Name:          strings.TrimSpace(req.Name),
		CNPJ:          cnpj,
		BirthDate:     calendarDate(birthDate),
		LicenseNumber: licenseNumber,
		LicenseType:   licenseType,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateDriver
		}
		return nil, fmt.Errorf("saving driver: %w", err)
	}

	s.logger.Info("delivery driver registered", zap.String("driver_id", driver.ID))
	return driver, nil
}

func (s *DriverService) Get(ctx context.Context, id string) (*models.DeliveryDriver, error) {
	return findDriver(ctx, s.drivers, id)
}

func (s *DriverService) List(ctx context.Context) ([]*models.DeliveryDriver, error) {
	return s.drivers.FindAll(ctx)
}

// UploadLicenseImage stores a png or bmp picture of the driver's license,
// replacing any previous one. The content must match the file extension.
func (s *DriverService) UploadLicenseImage(ctx context.Context, id, filename string, content []byte) (*models.DeliveryDriver, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := licenseImageTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrInvalidLicenseImage, ext)
	}
	if detected := mimetype.Detect(content); !detected.Is(want) {
		return nil, fmt.Errorf("%w: content is %s", ErrInvalidLicenseImage, detected.String())
	}

	driver, err := findDriver(ctx, s.drivers, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("licenses/%s%s", driver.ID, ext)
	if _, err := s.files.Save(ctx, key, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("storing license image: %w", err)
	}

	now := s.now().UTC()
	if err := s.drivers.UpdateLicenseImage(ctx, driver.ID, key, now); err != nil {
		return nil, fmt.Errorf("saving license image path: %w", err)
	}

	if previous := driver.LicenseImagePath; previous != "" && previous != key {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.logger.Warn("removing previous license image failed",
				zap.String("driver_id", driver.ID), zap.String("key", previous), zap.Error(err))
		}
	}

	driver.LicenseImagePath = key
	driver.UpdatedAt = &now
	return driver, nil
}

func (s *DriverService) ensureUnique(
	ctx context.Context,
	find func(context.Context, string) (*models.DeliveryDriver, error),
	value string,
	dupErr error,
) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return dupErr
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("checking driver uniqueness: %w", err)
	}
}
