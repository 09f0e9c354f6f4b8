package entities

import "time"

// PriceType describes how a service is billed.
type PriceType string

const (
	PriceTypeHourly PriceType = "hourly"
	PriceTypeFixed  PriceType = "fixed"
)

// ValidPriceType reports whether the price type is a known billing mode.
func ValidPriceType(pt PriceType) bool {
	return pt == PriceTypeHourly || pt == PriceTypeFixed
}

// ServiceStatus is the listing visibility state.
type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
)

// Service is a listing published by a provider. ProviderID is set at creation
// and never changes; only the owning provider may mutate or delete a listing.
type Service struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:200" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Category    string        `gorm:"size:100;index" json:"category"`
	Price       float64       `json:"price"`
	PriceType   PriceType     `gorm:"size:16" json:"price_type"`
	Location    string        `gorm:"size:200" json:"location"`
	Image       string        `gorm:"size:500" json:"image"`
	Status      ServiceStatus `gorm:"size:16;index" json:"status"`
	ProviderID  uint          `gorm:"index" json:"provider_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}
