// Package bookings provides database operations for bookings.
package bookings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// Repository handles all booking database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new booking.
func (r *Repository) Create(booking *entities.Booking) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking by ID.
func (r *Repository) GetByID(id uint) (*entities.Booking, error) {
	var booking entities.Booking
	err := r.db.First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// ListByCustomer returns a customer's bookings, newest first.
func (r *Repository) ListByCustomer(customerID uint) ([]entities.Booking, error) {
	var bookings []entities.Booking
	err := r.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListByProvider returns the bookings made against a provider's listings,
// newest first.
func (r *Repository) ListByProvider(providerID uint) ([]entities.Booking, error) {
	var bookings []entities.Booking
	err := r.db.Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// UpdateStatus persists a booking status change.
func (r *Repository) UpdateStatus(id uint, status entities.BookingStatus) error {
	result := r.db.Model(&entities.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
