package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/audit"
	"github.com/kaamkrao/kaamkrao/internal/auth"
	"github.com/kaamkrao/kaamkrao/internal/database/bookings"
	"github.com/kaamkrao/kaamkrao/internal/database/services"
	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// BookingsController handles booking creation, listing and the status
// lifecycle.
type BookingsController struct {
	repo     *bookings.Repository
	services *services.Repository
	auditor  *audit.Service
}

// NewBookingsController creates a new bookings controller.
func NewBookingsController(repo *bookings.Repository, servicesRepo *services.Repository, auditor *audit.Service) *BookingsController {
	return &BookingsController{repo: repo, services: servicesRepo, auditor: auditor}
}

type createBookingRequest struct {
	ServiceID uint   `json:"service_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
}

// Create books an active service for the calling customer. Provider, price
// and location are snapshotted from the listing at creation time.
func (bc *BookingsController) Create(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Date == "" || req.TimeSlot == "" {
		respondBadRequest(c, "date and time_slot are required")
		return
	}

	service, err := bc.services.GetByID(req.ServiceID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondNotFound(c, "service")
			return
		}
		respondInternalError(c, err, "load service for booking")
		return
	}
	if service.Status != entities.ServiceStatusActive {
		respondBadRequest(c, "service is not accepting bookings")
		return
	}

	booking := &entities.Booking{
		ServiceID:  service.ID,
		CustomerID: user.ID,
		ProviderID: service.ProviderID,
		Date:       req.Date,
		TimeSlot:   req.TimeSlot,
		Status:     entities.BookingStatusPending,
		Price:      service.Price,
		Location:   service.Location,
	}
	if err := bc.repo.Create(booking); err != nil {
		respondInternalError(c, err, "create booking")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogResource(user.ID, entities.AuditEventBooking, "booking_create", "booking", booking.ID, nil)
	}
	respondCreated(c, booking)
}

// List returns the caller's bookings: as customer for customers, as
// provider for providers.
func (bc *BookingsController) List(c *gin.Context) {
	user := auth.CurrentUser(c)

	var (
		list []entities.Booking
		err  error
	)
	if user.Role == entities.UserRoleProvider {
		list, err = bc.repo.ListByProvider(user.ID)
	} else {
		list, err = bc.repo.ListByCustomer(user.ID)
	}
	if err != nil {
		respondInternalError(c, err, "list bookings")
		return
	}
	respondOK(c, list)
}

// loadParty fetches a booking and verifies the caller is a party to it.
// Existence is checked before party membership, same ordering as the
// service ownership guard.
func (bc *BookingsController) loadParty(c *gin.Context) (*entities.Booking, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	booking, err := bc.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, bookings.ErrNotFound) {
			respondNotFound(c, "booking")
			return nil, false
		}
		respondInternalError(c, err, "load booking")
		return nil, false
	}

	user := auth.CurrentUser(c)
	if !auth.IsOwner(user, booking.CustomerID) && !auth.IsOwner(user, booking.ProviderID) {
		respondForbidden(c, "not authorized to access this booking")
		return nil, false
	}

	return booking, true
}

// Get returns a single booking to either party.
func (bc *BookingsController) Get(c *gin.Context) {
	booking, ok := bc.loadParty(c)
	if !ok {
		return
	}
	respondOK(c, booking)
}

type updateStatusRequest struct {
	Status entities.BookingStatus `json:"status"`
}

// UpdateStatus advances the booking lifecycle. The provider may confirm,
// complete or cancel; the customer may only cancel. Transitions are
// one-directional and completed/cancelled are terminal.
func (bc *BookingsController) UpdateStatus(c *gin.Context) {
	booking, ok := bc.loadParty(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user := auth.CurrentUser(c)
	if user.ID == booking.CustomerID && req.Status != entities.BookingStatusCancelled {
		respondForbidden(c, "customers may only cancel bookings")
		return
	}

	if !booking.Status.CanTransition(req.Status) {
		respondBadRequest(c, "invalid status transition")
		return
	}

	if err := bc.repo.UpdateStatus(booking.ID, req.Status); err != nil {
		respondInternalError(c, err, "update booking status")
		return
	}
	booking.Status = req.Status

	if bc.auditor != nil {
		bc.auditor.LogResource(user.ID, entities.AuditEventBooking, "booking_"+string(req.Status), "booking", booking.ID, nil)
	}
	respondOK(c, booking)
}
