// Package services provides database operations for service listings.
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// ErrNotFound is returned when no service matches the lookup.
var ErrNotFound = errors.New("service not found")

// BrowseFilter narrows the public listing search. Zero values match
// everything.
type BrowseFilter struct {
	Query    string // substring match on title or description
	Category string // exact match
	Location string // substring match
}

// Repository handles all service database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new services repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new service listing.
func (r *Repository) Create(service *entities.Service) error {
	return r.db.Create(service).Error
}

// GetByID retrieves a service by ID.
func (r *Repository) GetByID(id uint) (*entities.Service, error) {
	var service entities.Service
	err := r.db.First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// ListByProvider returns all listings owned by a provider, newest first.
func (r *Repository) ListByProvider(providerID uint) ([]entities.Service, error) {
	var services []entities.Service
	err := r.db.Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&services).Error
	return services, err
}

// Browse returns active listings matching the filter, newest first. Matching
// is naive substring comparison, case-insensitive for the free-text query.
func (r *Repository) Browse(filter BrowseFilter) ([]entities.Service, error) {
	query := r.db.Where("status = ?", entities.ServiceStatusActive)

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}

	var services []entities.Service
	err := query.Order("created_at DESC").Find(&services).Error
	return services, err
}

// Update persists changes to an existing service.
func (r *Repository) Update(service *entities.Service) error {
	return r.db.Save(service).Error
}

// Delete removes a service by ID. Returns ErrNotFound if no row was deleted.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Service{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ImagePaths returns every image path referenced by a service. Used by the
// orphaned-upload sweep.
func (r *Repository) ImagePaths() ([]string, error) {
	var paths []string
	err := r.db.Model(&entities.Service{}).
		Where("image <> ''").
		Pluck("image", &paths).Error
	return paths, err
}
