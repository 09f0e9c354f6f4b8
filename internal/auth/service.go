package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaamkrao/kaamkrao/internal/config"
	"github.com/kaamkrao/kaamkrao/internal/database/users"
	"github.com/kaamkrao/kaamkrao/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrInvalidRole      = errors.New("invalid role")
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// UserRepository defines the user store operations the service needs.
type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id uint) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	Update(user *entities.User) error
	Delete(id uint) error
}

// Service handles credential management and verification.
type Service struct {
	repo   UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo UserRepository, cfg config.Auth) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases an email so
// uniqueness comparison and storage use one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user. The email is normalized before the duplicate
// check, and the password is hashed exactly once, here.
func (s *Service) Signup(name, email, password string, role entities.UserRole) (*entities.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if !entities.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	_, err := s.repo.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(user); err != nil {
		// A concurrent signup can slip past the lookup above and lose the
		// insert race on the unique email index.
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. The stored hash is
// re-verified, never decrypted. Lookup failure and password mismatch are
// indistinguishable to callers.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.repo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates a user's display name and, only when a new password
// is submitted, recomputes the password hash. An empty password leaves the
// stored hash untouched, so an unchanged password is never double-hashed.
func (s *Service) UpdateProfile(id uint, name, newPassword string) (*entities.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if newPassword != "" {
		hash, err := HashPassword(newPassword, s.config.BcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user account. Sessions referencing the user become
// invalid on their next request because the middleware reloads the user.
func (s *Service) DeleteUser(id uint) error {
	err := s.repo.Delete(id)
	if errors.Is(err, users.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
