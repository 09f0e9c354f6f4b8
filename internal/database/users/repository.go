// Package users provides database operations for user accounts.
package users

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when an insert trips the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new user. The caller is responsible for normalizing the
// email and hashing the password beforehand. A unique-index collision on the
// email column is reported as ErrDuplicateEmail so concurrent signups of the
// same address stay a client error.
func (r *Repository) Create(user *entities.User) error {
	err := r.db.Create(user).Error
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateEmail
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by normalized email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update persists changes to an existing user.
func (r *Repository) Update(user *entities.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user by ID. Returns ErrNotFound if no row was deleted.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
