package services

import "errors"

// Rental lifecycle errors.
var (
	ErrInvalidPlan          = errors.New("invalid rental plan")
	ErrMotorcycleNotFound   = errors.New("motorcycle not found")
	ErrDriverNotFound       = errors.New("delivery driver not found")
	ErrIneligibleDriver     = errors.New("driver license does not cover motorcycles")
	ErrActiveRentalConflict = errors.New("driver already has an active rental")
	ErrRentalNotFound       = errors.New("rental not found")
)

// Registration errors.
var (
	ErrDuplicateLicensePlate  = errors.New("license plate already registered")
	ErrMotorcycleHasRentals   = errors.New("motorcycle has rentals and cannot be removed")
	ErrInvalidLicenseType     = errors.New("license type must be A, B or A+B")
	ErrDuplicateCNPJ          = errors.New("cnpj already registered")
	ErrDuplicateLicenseNumber = errors.New("license number already registered")
	ErrDuplicateDriver        = errors.New("delivery driver already registered")
	ErrInvalidLicenseImage    = errors.New("license image must be a png or bmp file")
	ErrInvalidDate            = errors.New("invalid date")
)
