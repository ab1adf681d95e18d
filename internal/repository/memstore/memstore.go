// Package memstore keeps rentals, motorcycles, drivers and notifications in
// process memory. It mirrors the unique indexes of the Mongo repositories and
// is used for local runs without a database and in tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/repository"
)

type Store struct {
	Motorcycles   *MotorcycleStore
	Drivers       *DriverStore
	Rentals       *RentalStore
	Notifications *NotificationStore
}

func New() *Store {
	return &Store{
		Motorcycles:   &MotorcycleStore{items: map[string]models.Motorcycle{}},
		Drivers:       &DriverStore{items: map[string]models.DeliveryDriver{}},
		Rentals:       &RentalStore{items: map[string]models.Rental{}},
		Notifications: &NotificationStore{},
	}
}

type MotorcycleStore struct {
	mu    sync.RWMutex
	items map[string]models.Motorcycle
}

func (s *MotorcycleStore) Create(_ context.Context, m *models.Motorcycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[m.ID]; ok {
		return repository.ErrDuplicateKey
	}
	for _, existing := range s.items {
		if existing.LicensePlate == m.LicensePlate {
			return repository.ErrDuplicateKey
		}
	}
	s.items[m.ID] = *m
	return nil
}

func (s *MotorcycleStore) FindByID(_ context.Context, id string) (*models.Motorcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (s *MotorcycleStore) FindByLicensePlate(_ context.Context, plate string) (*models.Motorcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.items {
		if m.LicensePlate == plate {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *MotorcycleStore) FindAll(_ context.Context, licensePlate string) ([]*models.Motorcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Motorcycle{}
	for _, m := range s.items {
		if licensePlate != "" && m.LicensePlate != licensePlate {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MotorcycleStore) UpdateLicensePlate(_ context.Context, id, plate string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	for otherID, other := range s.items {
		if otherID != id && other.LicensePlate == plate {
			return repository.ErrDuplicateKey
		}
	}
	m.LicensePlate = plate
	m.UpdatedAt = &updatedAt
	s.items[id] = m
	return nil
}

func (s *MotorcycleStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type DriverStore struct {
	mu    sync.RWMutex
	items map[string]models.DeliveryDriver
}

func (s *DriverStore) Create(_ context.Context, d *models.DeliveryDriver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[d.ID]; ok {
		return repository.ErrDuplicateKey
	}
	for _, existing := range s.items {
		if existing.CNPJ == d.CNPJ || existing.LicenseNumber == d.LicenseNumber {
			return repository.ErrDuplicateKey
		}
	}
	s.items[d.ID] = *d
	return nil
}

func (s *DriverStore) FindByID(_ context.Context, id string) (*models.DeliveryDriver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (s *DriverStore) FindByCNPJ(_ context.Context, cnpj string) (*models.DeliveryDriver, error) {
	return s.findFirst(func(d models.DeliveryDriver) bool { return d.CNPJ == cnpj })
}

func (s *DriverStore) FindByLicenseNumber(_ context.Context, licenseNumber string) (*models.DeliveryDriver, error) {
	return s.findFirst(func(d models.DeliveryDriver) bool { return d.LicenseNumber == licenseNumber })
}

func (s *DriverStore) FindAll(_ context.Context) ([]*models.DeliveryDriver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.DeliveryDriver{}
	for _, d := range s.items {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *DriverStore) UpdateLicenseImage(_ context.Context, id, path string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.LicenseImagePath = path
	d.UpdatedAt = &updatedAt
	s.items[id] = d
	return nil
}

func (s *DriverStore) findFirst(match func(models.DeliveryDriver) bool) (*models.DeliveryDriver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.items {
		if match(d) {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

type RentalStore struct {
	mu    sync.RWMutex
	items map[string]models.Rental
}

func (s *RentalStore) Create(_ context.Context, r *models.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[r.ID]; ok {
		return repository.ErrDuplicateKey
	}
	s.items[r.ID] = *r
	return nil
}

func (s *RentalStore) FindByID(_ context.Context, id string) (*models.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *RentalStore) Update(_ context.Context, r *models.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[r.ID]; !ok {
		return repository.ErrNotFound
	}
	s.items[r.ID] = *r
	return nil
}

func (s *RentalStore) FindByDriver(ctx context.Context, driverID string) ([]*models.Rental, error) {
	return s.FindAll(ctx, repository.RentalFilter{DriverID: driverID})
}

func (s *RentalStore) FindAll(_ context.Context, filter repository.RentalFilter) ([]*models.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Rental{}
	for _, r := range s.items {
		if filter.DriverID != "" && r.DriverID != filter.DriverID {
			continue
		}
		if filter.MotorcycleID != "" && r.MotorcycleID != filter.MotorcycleID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *RentalStore) CountByMotorcycle(_ context.Context, motorcycleID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.items {
		if r.MotorcycleID == motorcycleID {
			n++
		}
	}
	return n, nil
}

type NotificationStore struct {
	mu    sync.RWMutex
	items []models.Notification
}

func (s *NotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, *n)
	return nil
}

func (s *NotificationStore) FindAll(_ context.Context, motorcycleID string) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Notification{}
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i]
		if motorcycleID != "" && n.MotorcycleID != motorcycleID {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}
