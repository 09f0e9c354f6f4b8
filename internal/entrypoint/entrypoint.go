// Package entrypoint wires the application together and runs the HTTP
// server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/audit"
	"github.com/kaamkrao/kaamkrao/internal/auth"
	"github.com/kaamkrao/kaamkrao/internal/config"
	"github.com/kaamkrao/kaamkrao/internal/database"
	auditrepo "github.com/kaamkrao/kaamkrao/internal/database/audit"
	"github.com/kaamkrao/kaamkrao/internal/database/bookings"
	"github.com/kaamkrao/kaamkrao/internal/database/services"
	"github.com/kaamkrao/kaamkrao/internal/database/users"
	httpapi "github.com/kaamkrao/kaamkrao/internal/http"
	"github.com/kaamkrao/kaamkrao/internal/scheduler"
	"github.com/kaamkrao/kaamkrao/internal/tasks"
	"github.com/kaamkrao/kaamkrao/internal/uploads"
)

// ShutdownFunc runs during graceful shutdown, before the HTTP listener
// is closed.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown signal received, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds all dependencies from config and serves the API.
func Run(cfg *config.Config, version string) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to access underlying database: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	usersRepo := users.NewRepository(db.DB)
	servicesRepo := services.NewRepository(db.DB)
	bookingsRepo := bookings.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)

	authService := auth.NewService(usersRepo, cfg.Auth)
	auditService := audit.NewService(auditRepo)
	// Runs after the HTTP server has drained, before the database closes.
	defer auditService.Close()

	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})
	defer rateLimiter.Stop()

	uploadStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}

	// Background maintenance: task queue plus cron scheduler.
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer taskClient.Close()

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditRepo),
			tasks.NewSweepOrphanUploadsQueue(servicesRepo, uploadStore),
		)

		ctx := context.Background()
		go taskClient.Start(ctx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance, cfg.Audit)
		if err := maintenance.Start(ctx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Database:       db,
		AuthService:    authService,
		SessionManager: sessionManager,
		RateLimiter:    rateLimiter,
		Auditor:        auditService,
		ServicesRepo:   servicesRepo,
		BookingsRepo:   bookingsRepo,
		UploadStore:    uploadStore,
		AuthConfig:     cfg.Auth,
		UploadsConfig:  cfg.Uploads,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	})
}
