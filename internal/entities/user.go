package entities

import "time"

// UserRole is the account type a user signed up with.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleProvider UserRole = "service_provider"
)

// ValidRole reports whether the role is one of the known account types.
func ValidRole(role UserRole) bool {
	return role == UserRoleCustomer || role == UserRoleProvider
}

// User is a registered account. The password is stored only as a bcrypt hash
// and is never serialized into responses.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         UserRole  `gorm:"size:32" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
