package http

import (
	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/audit"
	"github.com/kaamkrao/kaamkrao/internal/auth"
	"github.com/kaamkrao/kaamkrao/internal/config"
	"github.com/kaamkrao/kaamkrao/internal/database"
	"github.com/kaamkrao/kaamkrao/internal/database/bookings"
	"github.com/kaamkrao/kaamkrao/internal/database/services"
	"github.com/kaamkrao/kaamkrao/internal/entities"
	"github.com/kaamkrao/kaamkrao/internal/uploads"
)

// RouterConfig carries the dependencies the router wires together.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter
	Auditor        *audit.Service
	ServicesRepo   *services.Repository
	BookingsRepo   *bookings.Repository
	UploadStore    *uploads.Store
	AuthConfig     config.Auth
	UploadsConfig  config.Uploads
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so the session context is layered on top
	// of the request CSRF rewrites.
	csrfEnabled := cfg.AuthConfig.CSRFSecret != ""
	if csrfEnabled {
		router.Use(auth.CSRFMiddleware([]byte(cfg.AuthConfig.CSRFSecret), cfg.AuthConfig.SecureCookies))
	}
	router.Use(cfg.SessionManager.SessionLoadSave())

	// Uploaded images are public static content.
	if cfg.UploadStore != nil {
		router.Static(cfg.UploadsConfig.PublicPath, cfg.UploadStore.Dir())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Health)

	requireAuth := auth.RequireAuth(cfg.AuthService, cfg.SessionManager)
	requireProvider := auth.RequireRole(entities.UserRoleProvider)
	requireCustomer := auth.RequireRole(entities.UserRoleCustomer)

	authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter, cfg.Auditor)
	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/signup", authController.Signup)
		authRoutes.POST("/login", authController.Login)
		authRoutes.POST("/logout", requireAuth, authController.Logout)
		authRoutes.GET("/me", requireAuth, authController.Me)
		authRoutes.PATCH("/profile", requireAuth, authController.UpdateProfile)
		authRoutes.DELETE("/users/:id", requireAuth, authController.DeleteUser)
		if csrfEnabled {
			authRoutes.GET("/csrf", authController.CSRFToken)
		}
	}

	servicesController := NewServicesController(cfg.ServicesRepo, cfg.UploadStore, cfg.Auditor)
	serviceRoutes := router.Group("/api/services", requireAuth)
	{
		// Browse is open to any authenticated role; management is
		// provider-only. The literal route must be declared before the
		// ":id" wildcard.
		serviceRoutes.GET("/browse", servicesController.Browse)

		serviceRoutes.GET("", requireProvider, servicesController.ListMine)
		serviceRoutes.POST("", requireProvider, servicesController.Create)
		serviceRoutes.GET("/:id", requireProvider, servicesController.Get)
		serviceRoutes.PUT("/:id", requireProvider, servicesController.Update)
		serviceRoutes.PATCH("/:id/toggle-status", requireProvider, servicesController.ToggleStatus)
		serviceRoutes.DELETE("/:id", requireProvider, servicesController.Delete)
	}

	bookingsController := NewBookingsController(cfg.BookingsRepo, cfg.ServicesRepo, cfg.Auditor)
	bookingRoutes := router.Group("/api/bookings", requireAuth)
	{
		bookingRoutes.POST("", requireCustomer, bookingsController.Create)
		bookingRoutes.GET("", bookingsController.List)
		bookingRoutes.GET("/:id", bookingsController.Get)
		bookingRoutes.PATCH("/:id/status", bookingsController.UpdateStatus)
	}

	return router
}
