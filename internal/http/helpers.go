package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper every endpoint returns.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// --- Success helpers ---

// respondOK sends a 200 response with data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// respondCreated sends a 201 response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// respondMessage sends a 200 response carrying only a message.
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// --- Error helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}

// respondUnauthorized sends a 401 Unauthorized response.
func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: message})
}

// respondForbidden sends a 403 Forbidden response.
func respondForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Envelope{Success: false, Message: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, Envelope{Success: false, Message: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error stays in the server log; clients get a short message only.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
}

// --- Parameter parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. On failure it responds with a 400 and returns ok=false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
