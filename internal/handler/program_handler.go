package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"patientmanager/internal/audit"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

type ProgramHandler struct {
	repo        *repository.ProgramRepository
	patientRepo *repository.PatientRepository
	audit       *audit.Logger
}

func NewProgramHandler(repo *repository.ProgramRepository, patientRepo *repository.PatientRepository, auditLogger *audit.Logger) *ProgramHandler {
	return &ProgramHandler{repo: repo, patientRepo: patientRepo, audit: auditLogger}
}

type CreateProgramRequest struct {
	Name      string `json:"name" binding:"required"`
	PatientID uint   `json:"patient_id" binding:"required"`
}

type UpdateProgramRequest struct {
	Name string `json:"name" binding:"required"`
}

type ProgramResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	PatientID uint      `json:"patient_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ProgramsResponse struct {
	Programs []ProgramResponse `json:"programs"`
}

type ProgramDetailResponse struct {
	Success bool            `json:"success,omitempty"`
	Program ProgramResponse `json:"program"`
}

func toProgramResponse(program *model.Program) ProgramResponse {
	return ProgramResponse{
		ID:        program.ID,
		Name:      program.Name,
		PatientID: program.PatientID,
		CreatedAt: program.CreatedAt,
	}
}

// GetAll godoc
// @Summary      List a patient's programs
// @Tags         Programs
// @Produce      json
// @Param        patient_id  query     int  true  "Patient ID"
// @Success      200         {object}  handler.ProgramsResponse
// @Failure      400         {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs [get]
func (h *ProgramHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	patientID, ok := parseUintQuery(c, "patient_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing patient_id parameter"})
		return
	}

	programs, err := h.repo.GetByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve programs"})
		return
	}

	response := ProgramsResponse{Programs: make([]ProgramResponse, len(programs))}
	for i := range programs {
		response.Programs[i] = toProgramResponse(&programs[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Get a specific program
// @Tags         Programs
// @Produce      json
// @Param        id   path      int  true  "Program ID"
// @Success      200  {object}  handler.ProgramDetailResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs/{id} [get]
func (h *ProgramHandler) GetByID(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	program, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve program"})
		return
	}
	if program == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	c.JSON(http.StatusOK, ProgramDetailResponse{Program: toProgramResponse(program)})
}

// Create godoc
// @Summary      Add a new program
// @Description  Creates the program and seeds its board with the default columns
// @Tags         Programs
// @Accept       json
// @Produce      json
// @Param        program  body      handler.CreateProgramRequest  true  "New program"
// @Success      201      {object}  handler.ProgramDetailResponse
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (name, patient_id)"})
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

	program := &model.Program{
		Name:      req.Name,
		PatientID: req.PatientID,
	}
	if err := h.repo.Create(c.Request.Context(), program); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionCreate,
		EntityType: "program",
		EntityID:   &program.ID,
		Details:    map[string]interface{}{"name": program.Name, "patient_id": program.PatientID},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusCreated, ProgramDetailResponse{Success: true, Program: toProgramResponse(program)})
}

// Update godoc
// @Summary      Rename a program
// @Tags         Programs
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Program ID"
// @Param        program  body      handler.UpdateProgramRequest  true  "Updated fields"
// @Success      200      {object}  handler.ProgramDetailResponse
// @Failure      404      {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field (name)"})
		return
	}

	program, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve program"})
		return
	}
	if program == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	program.Name = req.Name
	if err := h.repo.Update(c.Request.Context(), program); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionUpdate,
		EntityType: "program",
		EntityID:   &program.ID,
		Details:    map[string]interface{}{"name": program.Name},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, ProgramDetailResponse{Success: true, Program: toProgramResponse(program)})
}

// Delete godoc
// @Summary      Delete a program with its tasks and board
// @Tags         Programs
// @Produce      json
// @Param        id   path      int  true  "Program ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrProgramNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionDelete,
		EntityType: "program",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
