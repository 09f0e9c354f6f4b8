package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/database"
)

// HealthController reports process and database health.
type HealthController struct {
	db      *database.Database
	version string
}

// NewHealthController creates a new health controller.
func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Health responds 200 when the database is reachable.
func (hc *HealthController) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if hc.db != nil {
		sqlDB, err := hc.db.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, Envelope{Success: code == http.StatusOK, Data: gin.H{
		"status":  status,
		"version": hc.version,
	}})
}
