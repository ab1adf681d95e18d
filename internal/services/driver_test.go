package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"moto-rental/internal/repository/memstore"
	"moto-rental/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newDriverService(t *testing.T) (*DriverService, *memstore.Store, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	store := memstore.New()
	service := NewDriverService(store.Drivers, files, zap.NewNop())
	service.now = func() time.Time { return fixedNow }
	return service, store, dir
}

func validDriverRequest() *CreateDriverRequest {
	return &CreateDriverRequest{
		Identifier:    "driver-001",
		Name:          "Maria Souza",
		CNPJ:          "12345678000190",
		BirthDate:     "1990-04-21",
		LicenseNumber: "98765432100",
		LicenseType:   "A+B",
	}
}

func TestCreateDriver(t *testing.T) {
	service, store, _ := newDriverService(t)

	driver, err := service.Create(context.Background(), validDriverRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, driver.ID)
	assert.Equal(t, "A+B", driver.LicenseType)
	assert.Equal(t, time.Date(1990, 4, 21, 0, 0, 0, 0, time.UTC), driver.BirthDate)
	assert.True(t, driver.CanRideMotorcycles())

	stored, err := store.Drivers.FindByID(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678000190", stored.CNPJ)
}

func TestCreateDriverNormalizesLicenseType(t *testing.T) {
	service, _, _ := newDriverService(t)
	req := validDriverRequest()
	req.LicenseType = " a "

	driver, err := service.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "A", driver.LicenseType)
}

func TestCreateDriverValidation(t *testing.T) {
	service, _, _ := newDriverService(t)
	_, err := service.Create(context.Background(), validDriverRequest())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*CreateDriverRequest)
		wantErr error
	}{
		{"unknown license type", func(r *CreateDriverRequest) { r.LicenseType = "C"; r.CNPJ = "1"; r.LicenseNumber = "1" }, ErrInvalidLicenseType},
		{"bad birth date", func(r *CreateDriverRequest) { r.BirthDate = "21/04/1990"; r.CNPJ = "2"; r.LicenseNumber = "2" }, ErrInvalidDate},
		{"duplicate cnpj", func(r *CreateDriverRequest) { r.LicenseNumber = "3" }, ErrDuplicateCNPJ},
		{"duplicate license number", func(r *CreateDriverRequest) { r.CNPJ = "4" }, ErrDuplicateLicenseNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validDriverRequest()
			tt.mutate(req)
			_, err := service.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploadLicenseImage(t *testing.T) {
	service, store, dir := newDriverService(t)
	driver, err := service.Create(context.Background(), validDriverRequest())
	require.NoError(t, err)

	updated, err := service.UploadLicenseImage(context.Background(), driver.ID, "cnh.PNG", pngHeader)
	require.NoError(t, err)

	key := "licenses/" + driver.ID + ".png"
	assert.Equal(t, key, updated.LicenseImagePath)

	content, err := os.ReadFile(filepath.Join(dir, "licenses", driver.ID+".png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, content)

	stored, err := store.Drivers.FindByID(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.Equal(t, key, stored.LicenseImagePath)
	require.NotNil(t, stored.UpdatedAt)
}

func TestUploadLicenseImageRejectsOtherFormats(t *testing.T) {
	service, _, _ := newDriverService(t)
	driver, err := service.Create(context.Background(), validDriverRequest())
	require.NoError(t, err)

	tests := map[string][]byte{
		"license.jpg": pngHeader,
		"license.png": []byte("definitely not an image"),
		"license.bmp": pngHeader,
		"license":     pngHeader,
	}
	for filename, content := range tests {
		_, err := service.UploadLicenseImage(context.Background(), driver.ID, filename, content)
		assert.ErrorIs(t, err, ErrInvalidLicenseImage, filename)
	}
}

func TestUploadLicenseImageUnknownDriver(t *testing.T) {
	service, _, _ := newDriverService(t)

	_, err := service.UploadLicenseImage(context.Background(), "missing", "cnh.png", pngHeader)
	assert.ErrorIs(t, err, ErrDriverNotFound)
}
