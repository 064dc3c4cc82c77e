package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"patientmanager/internal/middleware"
)

// SuccessResponse acknowledges a write with no payload to return.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// authenticatedUser pulls the authenticated user id out of the request
// context, answering the request itself when it is missing.
func authenticatedUser(c *gin.Context) (uint, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return 0, false
	}

	userID, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return 0, false
	}

	return userID, true
}

// parseIDParam reads a numeric path parameter, answering with 400 on
// garbage input.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// parseUintQuery reads a numeric query parameter. Missing or malformed
// values return ok=false without answering the request.
func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
