package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"patientmanager/internal/audit"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

type PatientHandler struct {
	repo  *repository.PatientRepository
	audit *audit.Logger
}

func NewPatientHandler(repo *repository.PatientRepository, auditLogger *audit.Logger) *PatientHandler {
	return &PatientHandler{repo: repo, audit: auditLogger}
}

type CreatePatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	UserID      uint   `json:"user_id"`
}

type UpdatePatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
}

type PatientResponse struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type PatientsResponse struct {
	Patients []PatientResponse `json:"patients"`
}

type SharedPatientsResponse struct {
	SharedPatients []PatientResponse `json:"shared_patients"`
}

type PatientDetailResponse struct {
	Success bool            `json:"success,omitempty"`
	Patient PatientResponse `json:"patient"`
}

func toPatientResponse(patient *model.Patient) PatientResponse {
	return PatientResponse{
		ID:          patient.ID,
		FirstName:   patient.FirstName,
		LastName:    patient.LastName,
		DateOfBirth: patient.DateOfBirth,
		UserID:      patient.UserID,
		CreatedAt:   patient.CreatedAt,
	}
}

func toPatientsResponse(patients []model.Patient) []PatientResponse {
	response := make([]PatientResponse, len(patients))
	for i := range patients {
		response[i] = toPatientResponse(&patients[i])
	}
	return response
}

// GetAll godoc
// @Summary      List patients
// @Description  All patients, or one user's patients with ?user_id=
// @Tags         Patients
// @Produce      json
// @Param        user_id  query     int  false  "Filter by owning user"
// @Success      200      {object}  handler.PatientsResponse
// @Security     BearerAuth
// @Router       /patients [get]
func (h *PatientHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	var (
		patients []model.Patient
		err      error
	)
	if userID, ok := parseUintQuery(c, "user_id"); ok {
		patients, err = h.repo.GetByUser(c.Request.Context(), userID)
	} else {
		patients, err = h.repo.GetAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}

	c.JSON(http.StatusOK, PatientsResponse{Patients: toPatientsResponse(patients)})
}

// GetShared godoc
// @Summary      List patients shared with a user
// @Tags         Patients
// @Produce      json
// @Param        user_id  query     int  true  "User the patients were shared with"
// @Success      200      {object}  handler.SharedPatientsResponse
// @Failure      400      {object}  map[string]string
// @Security     BearerAuth
// @Router       /shared_patients [get]
func (h *PatientHandler) GetShared(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	userID, ok := parseUintQuery(c, "user_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id parameter"})
		return
	}

	patients, err := h.repo.GetSharedWithUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared patients"})
		return
	}

	c.JSON(http.StatusOK, SharedPatientsResponse{SharedPatients: toPatientsResponse(patients)})
}

// GetByID godoc
// @Summary      Get a specific patient
// @Tags         Patients
// @Produce      json
// @Param        id   path      int  true  "Patient ID"
// @Success      200  {object}  handler.PatientDetailResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{id} [get]
func (h *PatientHandler) GetByID(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	patient, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		return
	}
	if patient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	c.JSON(http.StatusOK, PatientDetailResponse{Patient: toPatientResponse(patient)})
}

// Create godoc
// @Summary      Add a new patient
// @Tags         Patients
// @Accept       json
// @Produce      json
// @Param        patient  body      handler.CreatePatientRequest  true  "New patient"
// @Success      201      {object}  handler.PatientDetailResponse
// @Failure      400      {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients [post]
func (h *PatientHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (first_name, last_name)"})
		return
	}

	// The caller owns the record unless it names another user.
	owner := req.UserID
	if owner == 0 {
		owner = userID
	}

	patient := &model.Patient{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		UserID:      owner,
	}
	if err := h.repo.Create(c.Request.Context(), patient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionCreate,
		EntityType: "patient",
		EntityID:   &patient.ID,
		Details: map[string]interface{}{
			"first_name":    patient.FirstName,
			"last_name":     patient.LastName,
			"date_of_birth": patient.DateOfBirth,
		},
		IPAddress: c.ClientIP(),
	})

	c.JSON(http.StatusCreated, PatientDetailResponse{Success: true, Patient: toPatientResponse(patient)})
}

// Update godoc
// @Summary      Update a patient
// @Tags         Patients
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Patient ID"
// @Param        patient  body      handler.UpdatePatientRequest  true  "Updated fields"
// @Success      200      {object}  handler.PatientDetailResponse
// @Failure      404      {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{id} [put]
func (h *PatientHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (first_name, last_name)"})
		return
	}

	patient, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		return
	}
	if patient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	patient.FirstName = req.FirstName
	patient.LastName = req.LastName
	patient.DateOfBirth = req.DateOfBirth

	if err := h.repo.Update(c.Request.Context(), patient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionUpdate,
		EntityType: "patient",
		EntityID:   &patient.ID,
		Details: map[string]interface{}{
			"first_name":    patient.FirstName,
			"last_name":     patient.LastName,
			"date_of_birth": patient.DateOfBirth,
		},
		IPAddress: c.ClientIP(),
	})

	c.JSON(http.StatusOK, PatientDetailResponse{Success: true, Patient: toPatientResponse(patient)})
}

// Delete godoc
// @Summary      Delete a patient and everything it owns
// @Tags         Patients
// @Produce      json
// @Param        id   path      int  true  "Patient ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{id} [delete]
func (h *PatientHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrPatientNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete patient"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionDelete,
		EntityType: "patient",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
