package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"patientmanager/internal/audit"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

type SharedAccessHandler struct {
	repo        *repository.SharedAccessRepository
	patientRepo *repository.PatientRepository
	userRepo    repository.UserRepositoryInterface
	audit       *audit.Logger
}

func NewSharedAccessHandler(
	repo *repository.SharedAccessRepository,
	patientRepo *repository.PatientRepository,
	userRepo repository.UserRepositoryInterface,
	auditLogger *audit.Logger,
) *SharedAccessHandler {
	return &SharedAccessHandler{repo: repo, patientRepo: patientRepo, userRepo: userRepo, audit: auditLogger}
}

type GrantAccessRequest struct {
	PatientID   uint   `json:"patient_id" binding:"required"`
	UserID      uint   `json:"user_id" binding:"required"`
	AccessLevel string `json:"access_level" binding:"required,oneof=read write full"`
}

type UpdateAccessRequest struct {
	AccessLevel string `json:"access_level" binding:"required,oneof=read write full"`
}

type SharedAccessResponse struct {
	ID          uint      `json:"id"`
	PatientID   uint      `json:"patient_id"`
	UserID      uint      `json:"user_id"`
	GrantedBy   uint      `json:"granted_by"`
	AccessLevel string    `json:"access_level"`
	GrantedAt   time.Time `json:"granted_at"`
}

type SharedAccessListResponse struct {
	SharedAccess []SharedAccessResponse `json:"shared_access"`
}

type SharedAccessDetailResponse struct {
	Success      bool                 `json:"success,omitempty"`
	SharedAccess SharedAccessResponse `json:"shared_access"`
}

func toSharedAccessResponse(share *model.SharedAccess) SharedAccessResponse {
	return SharedAccessResponse{
		ID:          share.ID,
		PatientID:   share.PatientID,
		UserID:      share.UserID,
		GrantedBy:   share.GrantedBy,
		AccessLevel: share.AccessLevel,
		GrantedAt:   share.GrantedAt,
	}
}

// GetAll godoc
// @Summary      List shared access records for a patient
// @Tags         SharedAccess
// @Produce      json
// @Param        patient_id  query     int  true  "Patient ID"
// @Success      200         {object}  handler.SharedAccessListResponse
// @Failure      400         {object}  map[string]string
// @Security     BearerAuth
// @Router       /shared_access [get]
func (h *SharedAccessHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	patientID, ok := parseUintQuery(c, "patient_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing patient_id parameter"})
		return
	}

	shares, err := h.repo.GetByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared access records"})
		return
	}

	response := SharedAccessListResponse{SharedAccess: make([]SharedAccessResponse, len(shares))}
	for i := range shares {
		response.SharedAccess[i] = toSharedAccessResponse(&shares[i])
	}

	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary      Share a patient with another user
// @Tags         SharedAccess
// @Accept       json
// @Produce      json
// @Param        share  body      handler.GrantAccessRequest  true  "Access grant"
// @Success      201    {object}  handler.SharedAccessDetailResponse
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Security     BearerAuth
// @Router       /shared_access [post]
func (h *SharedAccessHandler) Create(c *gin.Context) {
	granterID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (patient_id, user_id, access_level)"})
		return
	}

	patient, err := h.patientRepo.GetByID(c.Request.Context(), req.PatientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		return
	}
	if patient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	share := &model.SharedAccess{
		PatientID:   req.PatientID,
		UserID:      req.UserID,
		GrantedBy:   granterID,
		AccessLevel: req.AccessLevel,
	}
	if err := h.repo.Create(c.Request.Context(), share); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shared access record"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &granterID,
		Action:     model.ActionShare,
		EntityType: "patient",
		EntityID:   &share.PatientID,
		Details: map[string]interface{}{
			"shared_with":  share.UserID,
			"access_level": share.AccessLevel,
		},
		IPAddress: c.ClientIP(),
	})

	c.JSON(http.StatusCreated, SharedAccessDetailResponse{Success: true, SharedAccess: toSharedAccessResponse(share)})
}

// Update godoc
// @Summary      Change the access level of a grant
// @Tags         SharedAccess
// @Accept       json
// @Produce      json
// @Param        id     path      int                          true  "Shared access ID"
// @Param        share  body      handler.UpdateAccessRequest  true  "New access level"
// @Success      200    {object}  handler.SharedAccessDetailResponse
// @Failure      404    {object}  map[string]string
// @Security     BearerAuth
// @Router       /shared_access/{id} [put]
func (h *SharedAccessHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field (access_level)"})
		return
	}

	if err := h.repo.UpdateLevel(c.Request.Context(), id, req.AccessLevel); err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shared access record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shared access record"})
		return
	}

	share, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil || share == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared access record"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionShare,
		EntityType: "patient",
		EntityID:   &share.PatientID,
		Details:    map[string]interface{}{"shared_with": share.UserID, "access_level": share.AccessLevel},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SharedAccessDetailResponse{Success: true, SharedAccess: toSharedAccessResponse(share)})
}

// Delete godoc
// @Summary      Revoke a shared access grant
// @Tags         SharedAccess
// @Produce      json
// @Param        id   path      int  true  "Shared access ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /shared_access/{id} [delete]
func (h *SharedAccessHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shared access record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shared access record"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionDelete,
		EntityType: "shared_access",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
