package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/pricing"
	"moto-rental/internal/repository"
	"moto-rental/pkg/lock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RentalService struct {
	rentals     RentalStore
	motorcycles MotorcycleReader
	drivers     DriverReader
	table       pricing.Table
	locker      lock.Locker
	now         func() time.Time
	logger      *zap.Logger
}

func NewRentalService(
	rentals RentalStore,
	motorcycles MotorcycleReader,
	drivers DriverReader,
	table pricing.Table,
	logger *zap.Logger,
) *RentalService {
	return &RentalService{
		rentals:     rentals,
		motorcycles: motorcycles,
		drivers:     drivers,
		table:       table,
		locker:      lock.NewMemoryLocker(5 * time.Second),
		now:         time.Now,
		logger:      logger.With(zap.String("component", "rental_service")),
	}
}

// SetLocker replaces the default in-process driver lock, e.g. with a redis
// lock shared by several instances.
func (s *RentalService) SetLocker(locker lock.Locker) {
	s.locker = locker
}

func (s *RentalService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RentalService) Plans() []pricing.Plan {
	return s.table.Plans()
}

type CreateRentalRequest struct {
	MotorcycleID string `json:"motorcycleId" validate:"required"`
	DriverID     string `json:"driverId" validate:"required"`
	PlanDays     int    `json:"planDays"`
}

type ReturnRentalRequest struct {
	ReturnDate string `json:"returnDate" validate:"required"`
}

// Create opens a rental starting tomorrow. The driver's active rental check
// and the insert run under the driver lock.
func (s *RentalService) Create(ctx context.Context, req *CreateRentalRequest) (*models.Rental, error) {
	rate, ok := s.table.Rate(req.PlanDays)
	if !ok {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidPlan, req.PlanDays)
	}

	if _, err := findMotorcycle(ctx, s.motorcycles, req.MotorcycleID); err != nil {
		return nil, err
	}

	driver, err := findDriver(ctx, s.drivers, req.DriverID)
	if err != nil {
		return nil, err
	}
	if !driver.CanRideMotorcycles() {
		return nil, fmt.Errorf("%w: license type %q", ErrIneligibleDriver, driver.LicenseType)
	}

	unlock, err := s.lockDriver(ctx, driver.ID)
	if err != nil {
		return nil, err
	}
	defer s.release(unlock, driver.ID)

	now := s.now().UTC()

	existing, err := s.rentals.FindByDriver(ctx, driver.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("listing driver rentals: %w", err)
	}
	for _, r := range existing {
		if r.IsActiveAt(now) {
			return nil, fmt.Errorf("%w: rental %s ends %s", ErrActiveRentalConflict, r.ID, r.EndDate.Format(time.DateOnly))
		}
	}

	start := calendarDate(now).AddDate(0, 0, 1)
	expectedEnd := start.AddDate(0, 0, req.PlanDays)

	rental := &models.Rental{
		ID:              uuid.NewString(),
		MotorcycleID:    req.MotorcycleID,
		DriverID:        driver.ID,
		StartDate:       start,
		ExpectedEndDate: expectedEnd,
		EndDate:         expectedEnd,
		PlanDays:        req.PlanDays,
		DailyRate:       rate,
		TotalAmount:     rate.Mul(decimal.NewFromInt(int64(req.PlanDays))),
		Status:          models.RentalOpen,
		CreatedAt:       now,
	}

	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, fmt.Errorf("saving rental: %w", err)
	}

	s.logger.Info("rental created",
		zap.String("rental_id", rental.ID),
		zap.String("driver_id", rental.DriverID),
		zap.String("motorcycle_id", rental.MotorcycleID),
		zap.Int("plan_days", rental.PlanDays),
		zap.String("total", rental.TotalAmount.StringFixed(2)))

	return rental, nil
}

func (s *RentalService) Get(ctx context.Context, id string) (*models.Rental, error) {
	return findRental(ctx, s.rentals, id)
}

func (s *RentalService) List(ctx context.Context, filter repository.RentalFilter) ([]*models.Rental, error) {
	return s.rentals.FindAll(ctx, filter)
}

// CalculateSettlement quotes what returning the motorcycle on returnDate
// would cost. Nothing is stored.
func (s *RentalService) CalculateSettlement(ctx context.Context, id string, returnDate time.Time) (*SettlementQuote, error) {
	rental, err := findRental(ctx, s.rentals, id)
	if err != nil {
		return nil, err
	}
	quote := computeSettlement(rental, returnDate)
	return &quote, nil
}

// Settle applies the settlement for returnDate and stores it.
//
// The quote is computed from the rental as currently stored. Settling the same
// rental again adds the adjustments a second time on top of the already
// settled total.
func (s *RentalService) Settle(ctx context.Context, id string, returnDate time.Time) (*models.Rental, error) {
	rental, err := findRental(ctx, s.rentals, id)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockDriver(ctx, rental.DriverID)
	if err != nil {
		return nil, err
	}
	defer s.release(unlock, rental.DriverID)

	// Re-read under the lock so a concurrent settlement is not overwritten.
	rental, err = findRental(ctx, s.rentals, id)
	if err != nil {
		return nil, err
	}

	if rental.Status == models.RentalSettled {
		s.logger.Warn("settling an already settled rental", zap.String("rental_id", rental.ID))
	}

	quote := computeSettlement(rental, returnDate)
	now := s.now().UTC()

	rental.EndDate = returnDate.UTC()
	rental.FineAmount = quote.FineAmount
	rental.AdditionalAmount = quote.AdditionalAmount
	rental.TotalAmount = quote.TotalAmount
	rental.Status = models.RentalSettled
	rental.UpdatedAt = &now

	if err := s.rentals.Update(ctx, rental); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("saving settlement: %w", err)
	}

	s.logger.Info("rental settled",
		zap.String("rental_id", rental.ID),
		zap.Int("day_difference", quote.DayDifference),
		zap.String("total", rental.TotalAmount.StringFixed(2)))

	return rental, nil
}

func (s *RentalService) lockDriver(ctx context.Context, driverID string) (lock.Unlock, error) {
	unlock, err := s.locker.Acquire(ctx, "rental:driver:"+driverID)
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, fmt.Errorf("%w: another request for driver %s is in progress", ErrActiveRentalConflict, driverID)
	}
	if err != nil {
		return nil, fmt.Errorf("locking driver %s: %w", driverID, err)
	}
	return unlock, nil
}

func (s *RentalService) release(unlock lock.Unlock, driverID string) {
	if err := unlock(); err != nil {
		s.logger.Warn("releasing driver lock failed", zap.String("driver_id", driverID), zap.Error(err))
	}
}
