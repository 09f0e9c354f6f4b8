package entities

import "time"

// BookingStatus is the lifecycle state of a booking. Transitions are
// one-directional: pending -> confirmed -> completed, with cancellation
// reachable from pending or confirmed. completed and cancelled are terminal.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// CanTransition reports whether a booking may move from its current status
// to the target status.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled
	case BookingStatusConfirmed:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	default:
		return false
	}
}

// Booking records a customer reserving a service. Price and location are
// snapshotted from the service at creation so later listing edits do not
// rewrite booking history.
type Booking struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	ServiceID  uint          `gorm:"index" json:"service_id"`
	CustomerID uint          `gorm:"index" json:"customer_id"`
	ProviderID uint          `gorm:"index" json:"provider_id"`
	Date       string        `gorm:"size:10" json:"date"` // YYYY-MM-DD
	TimeSlot   string        `gorm:"size:32" json:"time_slot"`
	Status     BookingStatus `gorm:"size:16;index" json:"status"`
	Price      float64       `json:"price"`
	Location   string        `gorm:"size:200" json:"location"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
