package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/audit"
	"github.com/kaamkrao/kaamkrao/internal/auth"
	"github.com/kaamkrao/kaamkrao/internal/database/services"
	"github.com/kaamkrao/kaamkrao/internal/entities"
	"github.com/kaamkrao/kaamkrao/internal/uploads"
)

// ServicesController handles provider listing management and the public
// browse endpoint.
type ServicesController struct {
	repo    *services.Repository
	store   *uploads.Store
	auditor *audit.Service
}

// NewServicesController creates a new services controller.
func NewServicesController(repo *services.Repository, store *uploads.Store, auditor *audit.Service) *ServicesController {
	return &ServicesController{repo: repo, store: store, auditor: auditor}
}

// loadOwned fetches a service and enforces the ownership guard. Existence is
// checked before ownership: a missing id is 404 for everyone, so callers
// cannot probe which ids exist by reading 403s. On failure the response has
// already been written and ok is false.
func (sc *ServicesController) loadOwned(c *gin.Context) (*entities.Service, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	service, err := sc.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondNotFound(c, "service")
			return nil, false
		}
		respondInternalError(c, err, "load service")
		return nil, false
	}

	if !auth.IsOwner(auth.CurrentUser(c), service.ProviderID) {
		respondForbidden(c, "not authorized to access this service")
		return nil, false
	}

	return service, true
}

// ListMine returns the caller's own listings.
func (sc *ServicesController) ListMine(c *gin.Context) {
	user := auth.CurrentUser(c)

	list, err := sc.repo.ListByProvider(user.ID)
	if err != nil {
		respondInternalError(c, err, "list services")
		return
	}
	respondOK(c, list)
}

// Get returns a single listing, owner only.
func (sc *ServicesController) Get(c *gin.Context) {
	service, ok := sc.loadOwned(c)
	if !ok {
		return
	}
	respondOK(c, service)
}

// Browse returns active listings matching the query filters. Any
// authenticated user may browse.
func (sc *ServicesController) Browse(c *gin.Context) {
	list, err := sc.repo.Browse(services.BrowseFilter{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Location: c.Query("location"),
	})
	if err != nil {
		respondInternalError(c, err, "browse services")
		return
	}
	respondOK(c, list)
}

// serviceForm reads the multipart fields shared by Create and Update.
// Returns a human-readable problem description, or "" when valid.
func serviceForm(c *gin.Context, service *entities.Service, creating bool) string {
	get := func(name string) (string, bool) {
		v, exists := c.GetPostForm(name)
		return strings.TrimSpace(v), exists
	}

	if v, exists := get("title"); exists || creating {
		if v == "" {
			return "title is required"
		}
		service.Title = v
	}
	if v, exists := get("description"); exists || creating {
		if v == "" {
			return "description is required"
		}
		service.Description = v
	}
	if v, exists := get("category"); exists || creating {
		if v == "" {
			return "category is required"
		}
		service.Category = v
	}
	if v, exists := get("location"); exists || creating {
		if v == "" {
			return "location is required"
		}
		service.Location = v
	}
	if v, exists := get("price"); exists || creating {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return "price must be a non-negative number"
		}
		service.Price = price
	}
	if v, exists := get("price_type"); exists || creating {
		pt := entities.PriceType(v)
		if !entities.ValidPriceType(pt) {
			return "price_type must be hourly or fixed"
		}
		service.PriceType = pt
	}

	return ""
}

// saveImage stores an uploaded image file, if the form carries one, and
// records its path on the service. Returns false when the response has
// already been written.
func (sc *ServicesController) saveImage(c *gin.Context, service *entities.Service) bool {
	file, err := c.FormFile("image")
	if err != nil {
		return true // no file uploaded
	}

	relPath, err := sc.store.SaveServiceImage(file)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrTooLarge), errors.Is(err, uploads.ErrBadExtension):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "save image")
		}
		return false
	}

	service.Image = relPath
	return true
}

// Create publishes a new listing owned by the caller.
func (sc *ServicesController) Create(c *gin.Context) {
	user := auth.CurrentUser(c)

	service := &entities.Service{
		Status:     entities.ServiceStatusActive,
		ProviderID: user.ID,
	}
	if problem := serviceForm(c, service, true); problem != "" {
		respondBadRequest(c, problem)
		return
	}
	if !sc.saveImage(c, service) {
		return
	}

	if err := sc.repo.Create(service); err != nil {
		respondInternalError(c, err, "create service")
		return
	}

	if sc.auditor != nil {
		sc.auditor.LogResource(user.ID, entities.AuditEventService, "service_create", "service", service.ID, nil)
	}
	respondCreated(c, service)
}

// Update edits a listing. The owning provider never changes.
func (sc *ServicesController) Update(c *gin.Context) {
	service, ok := sc.loadOwned(c)
	if !ok {
		return
	}

	if problem := serviceForm(c, service, false); problem != "" {
		respondBadRequest(c, problem)
		return
	}

	oldImage := service.Image
	if !sc.saveImage(c, service) {
		return
	}

	if err := sc.repo.Update(service); err != nil {
		respondInternalError(c, err, "update service")
		return
	}

	if service.Image != oldImage && oldImage != "" {
		_ = sc.store.Remove(oldImage)
	}

	if sc.auditor != nil {
		sc.auditor.LogResource(service.ProviderID, entities.AuditEventService, "service_update", "service", service.ID, nil)
	}
	respondOK(c, service)
}

// ToggleStatus flips a listing between active and inactive.
func (sc *ServicesController) ToggleStatus(c *gin.Context) {
	service, ok := sc.loadOwned(c)
	if !ok {
		return
	}

	if service.Status == entities.ServiceStatusActive {
		service.Status = entities.ServiceStatusInactive
	} else {
		service.Status = entities.ServiceStatusActive
	}

	if err := sc.repo.Update(service); err != nil {
		respondInternalError(c, err, "toggle service status")
		return
	}

	if sc.auditor != nil {
		sc.auditor.LogResource(service.ProviderID, entities.AuditEventService, "service_toggle_status", "service", service.ID, nil)
	}
	respondOK(c, service)
}

// Delete removes a listing and its stored image.
func (sc *ServicesController) Delete(c *gin.Context) {
	service, ok := sc.loadOwned(c)
	if !ok {
		return
	}

	if err := sc.repo.Delete(service.ID); err != nil {
		respondInternalError(c, err, "delete service")
		return
	}

	if service.Image != "" {
		_ = sc.store.Remove(service.Image)
	}

	if sc.auditor != nil {
		sc.auditor.LogResource(service.ProviderID, entities.AuditEventService, "service_delete", "service", service.ID, nil)
	}
	respondMessage(c, "Service deleted successfully")
}
