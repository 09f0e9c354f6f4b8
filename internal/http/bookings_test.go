package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// bookingApp seeds a provider with one active listing and a customer.
type bookingApp struct {
	*testApp
	provider  []*http.Cookie
	customer  []*http.Cookie
	serviceID uint
}

func setupBookingApp(t *testing.T) *bookingApp {
	t.Helper()
	app := setupTestApp(t)
	provider := app.signup(t, "Ravi", "ravi@example.com", entities.UserRoleProvider)
	customer := app.signup(t, "Asha", "asha@example.com", entities.UserRoleCustomer)
	serviceID := app.createService(t, provider, serviceFields())
	return &bookingApp{
		testApp:   app,
		provider:  provider,
		customer:  customer,
		serviceID: serviceID,
	}
}

func (app *bookingApp) book(t *testing.T) uint {
	t.Helper()
	w := app.doJSON("POST", "/api/bookings", map[string]any{
		"service_id": app.serviceID,
		"date":       "2026-09-15",
		"time_slot":  "10:00-12:00",
	}, app.customer)
	require.Equal(t, http.StatusCreated, w.Code, "booking failed: %s", w.Body.String())
	return uint(dataField(t, w, "id").(float64))
}

func (app *bookingApp) setStatus(t *testing.T, id uint, cookies []*http.Cookie, status string) int {
	t.Helper()
	w := app.doJSON("PATCH", "/api/bookings/"+itoa(id)+"/status", map[string]any{
		"status": status,
	}, cookies)
	return w.Code
}

func TestBookings_Create(t *testing.T) {
	app := setupBookingApp(t)

	t.Run("snapshots price and location", func(t *testing.T) {
		id := app.book(t)

		booking, err := app.bookingsRepo.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, entities.BookingStatusPending, booking.Status)
		assert.EqualValues(t, 500, booking.Price)
		assert.Equal(t, "Mumbai", booking.Location)

		// Snapshot survives a later listing edit
		w := app.doForm("PUT", "/api/services/"+itoa(app.serviceID), map[string]string{
			"price":    "900",
			"location": "Delhi",
		}, "", app.provider)
		require.Equal(t, http.StatusOK, w.Code)

		booking, err = app.bookingsRepo.GetByID(id)
		require.NoError(t, err)
		assert.EqualValues(t, 500, booking.Price)
		assert.Equal(t, "Mumbai", booking.Location)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := app.doJSON("POST", "/api/bookings", map[string]any{
			"service_id": app.serviceID,
		}, app.customer)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown service", func(t *testing.T) {
		w := app.doJSON("POST", "/api/bookings", map[string]any{
			"service_id": 99999,
			"date":       "2026-09-15",
			"time_slot":  "10:00-12:00",
		}, app.customer)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("inactive service", func(t *testing.T) {
		w := app.doJSON("PATCH", "/api/services/"+itoa(app.serviceID)+"/toggle-status", nil, app.provider)
		require.Equal(t, http.StatusOK, w.Code)
		defer func() {
			w := app.doJSON("PATCH", "/api/services/"+itoa(app.serviceID)+"/toggle-status", nil, app.provider)
			require.Equal(t, http.StatusOK, w.Code)
		}()

		w = app.doJSON("POST", "/api/bookings", map[string]any{
			"service_id": app.serviceID,
			"date":       "2026-09-15",
			"time_slot":  "10:00-12:00",
		}, app.customer)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("providers cannot book", func(t *testing.T) {
		w := app.doJSON("POST", "/api/bookings", map[string]any{
			"service_id": app.serviceID,
			"date":       "2026-09-15",
			"time_slot":  "10:00-12:00",
		}, app.provider)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestBookings_List(t *testing.T) {
	app := setupBookingApp(t)
	app.book(t)
	app.book(t)

	outsider := app.signup(t, "Meera", "meera@example.com", entities.UserRoleCustomer)

	listLen := func(t *testing.T, cookies []*http.Cookie) int {
		t.Helper()
		w := app.doJSON("GET", "/api/bookings", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		list, ok := env.Data.([]any)
		require.True(t, ok)
		return len(list)
	}

	assert.Equal(t, 2, listLen(t, app.customer), "customer sees own bookings")
	assert.Equal(t, 2, listLen(t, app.provider), "provider sees bookings against their listings")
	assert.Equal(t, 0, listLen(t, outsider), "unrelated customer sees nothing")
}

func TestBookings_Get(t *testing.T) {
	app := setupBookingApp(t)
	id := app.book(t)

	t.Run("both parties can read", func(t *testing.T) {
		for _, cookies := range [][]*http.Cookie{app.customer, app.provider} {
			w := app.doJSON("GET", "/api/bookings/"+itoa(id), nil, cookies)
			require.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("non-party gets 403", func(t *testing.T) {
		outsider := app.signup(t, "Meera", "meera@example.com", entities.UserRoleCustomer)
		w := app.doJSON("GET", "/api/bookings/"+itoa(id), nil, outsider)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing booking is 404", func(t *testing.T) {
		w := app.doJSON("GET", "/api/bookings/99999", nil, app.customer)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookings_StatusLifecycle(t *testing.T) {
	app := setupBookingApp(t)

	t.Run("provider confirms then completes", func(t *testing.T) {
		id := app.book(t)

		assert.Equal(t, http.StatusOK, app.setStatus(t, id, app.provider, "confirmed"))
		assert.Equal(t, http.StatusOK, app.setStatus(t, id, app.provider, "completed"))

		// Completed is terminal
		assert.Equal(t, http.StatusBadRequest, app.setStatus(t, id, app.provider, "cancelled"))
	})

	t.Run("customer may only cancel", func(t *testing.T) {
		id := app.book(t)

		assert.Equal(t, http.StatusForbidden, app.setStatus(t, id, app.customer, "confirmed"))
		assert.Equal(t, http.StatusForbidden, app.setStatus(t, id, app.customer, "completed"))
		assert.Equal(t, http.StatusOK, app.setStatus(t, id, app.customer, "cancelled"))

		// Cancelled is terminal even for the provider
		assert.Equal(t, http.StatusBadRequest, app.setStatus(t, id, app.provider, "confirmed"))
	})

	t.Run("cannot skip confirmation", func(t *testing.T) {
		id := app.book(t)
		assert.Equal(t, http.StatusBadRequest, app.setStatus(t, id, app.provider, "completed"))
	})

	t.Run("provider may cancel a confirmed booking", func(t *testing.T) {
		id := app.book(t)
		assert.Equal(t, http.StatusOK, app.setStatus(t, id, app.provider, "confirmed"))
		assert.Equal(t, http.StatusOK, app.setStatus(t, id, app.provider, "cancelled"))
	})

	t.Run("unknown status value", func(t *testing.T) {
		id := app.book(t)
		assert.Equal(t, http.StatusBadRequest, app.setStatus(t, id, app.provider, "postponed"))
	})
}
