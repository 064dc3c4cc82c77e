package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

type AuditHandler struct {
	repo *repository.AuditRepository
}

func NewAuditHandler(repo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type AuditLogResponse struct {
	ID         uint      `json:"id"`
	EventID    string    `json:"event_id"`
	UserID     *uint     `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *uint     `json:"entity_id"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
}

func toAuditLogResponse(entry *model.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         entry.ID,
		EventID:    entry.EventID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
		CreatedAt:  entry.CreatedAt,
	}
}

// GetAll godoc
// @Summary      List audit log entries
// @Description  Newest entries first, optionally filtered
// @Tags         Audit
// @Produce      json
// @Param        user_id      query     int     false  "Acting user"
// @Param        action       query     string  false  "Action type"
// @Param        entity_type  query     string  false  "Entity type"
// @Param        entity_id    query     int     false  "Entity ID"
// @Param        limit        query     int     false  "Maximum number of entries"
// @Success      200          {object}  handler.AuditLogsResponse
// @Security     BearerAuth
// @Router       /audit_logs [get]
func (h *AuditHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	filter := repository.AuditFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if userID, ok := parseUintQuery(c, "user_id"); ok {
		filter.UserID = &userID
	}
	if entityID, ok := parseUintQuery(c, "entity_id"); ok {
		filter.EntityID = &entityID
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	entries, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	response := AuditLogsResponse{AuditLogs: make([]AuditLogResponse, len(entries))}
	for i := range entries {
		response.AuditLogs[i] = toAuditLogResponse(&entries[i])
	}

	c.JSON(http.StatusOK, response)
}
