package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"patientmanager/internal/audit"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

type ColumnHandler struct {
	repo        *repository.ColumnRepository
	programRepo *repository.ProgramRepository
	audit       *audit.Logger
}

func NewColumnHandler(repo *repository.ColumnRepository, programRepo *repository.ProgramRepository, auditLogger *audit.Logger) *ColumnHandler {
	return &ColumnHandler{repo: repo, programRepo: programRepo, audit: auditLogger}
}

type AppendColumnRequest struct {
	Title string `json:"title" binding:"required"`
}

type RenameColumnRequest struct {
	Title string `json:"title" binding:"required"`
}

type ColumnResponse struct {
	ID        uint   `json:"id"`
	ProgramID uint   `json:"program_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
}

type ColumnsResponse struct {
	Columns []ColumnResponse `json:"columns"`
}

type ColumnDetailResponse struct {
	Success bool           `json:"success,omitempty"`
	Column  ColumnResponse `json:"column"`
}

type ReorderColumnsRequest struct {
	Columns []struct {
		ID       uint `json:"id" binding:"required"`
		Position *int `json:"position" binding:"required"`
	} `json:"columns" binding:"required"`
}

func toColumnResponse(column *model.BoardColumn) ColumnResponse {
	return ColumnResponse{
		ID:        column.ID,
		ProgramID: column.ProgramID,
		Title:     column.Title,
		Position:  column.Position,
	}
}

func (h *ColumnHandler) columnsResponse(c *gin.Context, programID uint) (ColumnsResponse, bool) {
	columns, err := h.repo.GetByProgram(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve columns"})
		return ColumnsResponse{}, false
	}

	response := ColumnsResponse{Columns: make([]ColumnResponse, len(columns))}
	for i := range columns {
		response.Columns[i] = toColumnResponse(&columns[i])
	}
	return response, true
}

// GetAll godoc
// @Summary      List a program's board columns in order
// @Tags         Columns
// @Produce      json
// @Param        id   path      int  true  "Program ID"
// @Success      200  {object}  handler.ColumnsResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs/{id}/columns [get]
func (h *ColumnHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	programID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	program, err := h.programRepo.GetByID(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve program"})
		return
	}
	if program == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	response, ok := h.columnsResponse(c, programID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response)
}

// Append godoc
// @Summary      Append a column to a program's board
// @Description  Boards are capped at 5 columns
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Param        id      path      int                          true  "Program ID"
// @Param        column  body      handler.AppendColumnRequest  true  "New column"
// @Success      201     {object}  handler.ColumnDetailResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs/{id}/columns [post]
func (h *ColumnHandler) Append(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	programID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AppendColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field (title)"})
		return
	}

	program, err := h.programRepo.GetByID(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve program"})
		return
	}
	if program == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	column := &model.BoardColumn{
		ProgramID: programID,
		Title:     req.Title,
	}
	if err := h.repo.Append(c.Request.Context(), column); err != nil {
		if errors.Is(err, repository.ErrColumnLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionCreate,
		EntityType: "column",
		EntityID:   &column.ID,
		Details:    map[string]interface{}{"title": column.Title, "program_id": programID},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusCreated, ColumnDetailResponse{Success: true, Column: toColumnResponse(column)})
}

// GetByID godoc
// @Summary      Get a specific board column
// @Tags         Columns
// @Produce      json
// @Param        id   path      int  true  "Column ID"
// @Success      200  {object}  handler.ColumnDetailResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /columns/{id} [get]
func (h *ColumnHandler) GetByID(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	column, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}
	if column == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		return
	}

	c.JSON(http.StatusOK, ColumnDetailResponse{Column: toColumnResponse(column)})
}

// Rename godoc
// @Summary      Rename a board column
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Param        id      path      int                          true  "Column ID"
// @Param        column  body      handler.RenameColumnRequest  true  "New title"
// @Success      200     {object}  handler.ColumnDetailResponse
// @Failure      404     {object}  map[string]string
// @Security     BearerAuth
// @Router       /columns/{id} [put]
func (h *ColumnHandler) Rename(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RenameColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field (title)"})
		return
	}

	column, err := h.repo.Rename(c.Request.Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename column"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionUpdate,
		EntityType: "column",
		EntityID:   &id,
		Details:    map[string]interface{}{"title": req.Title},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, ColumnDetailResponse{Success: true, Column: toColumnResponse(column)})
}

// Delete godoc
// @Summary      Remove a board column
// @Description  Boards keep at least 3 columns; tasks of the removed column fall back to the first column
// @Tags         Columns
// @Produce      json
// @Param        id   path      int  true  "Column ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /columns/{id} [delete]
func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrColumnNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		case errors.Is(err, repository.ErrColumnMinimum):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete column"})
		}
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionDelete,
		EntityType: "column",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Reorder godoc
// @Summary      Reorder a program's board columns
// @Description  The request must assign every column of the board a unique position 0..count-1
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Param        id     path      int                            true  "Program ID"
// @Param        order  body      handler.ReorderColumnsRequest  true  "Column order"
// @Success      200    {object}  handler.ColumnsResponse
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Security     BearerAuth
// @Router       /programs/{id}/columns/reorder [post]
func (h *ColumnHandler) Reorder(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	programID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	order := make([]repository.ColumnPosition, len(req.Columns))
	for i, entry := range req.Columns {
		order[i] = repository.ColumnPosition{ID: entry.ID, Position: *entry.Position}
	}

	if err := h.repo.Reorder(c.Request.Context(), programID, order); err != nil {
		switch {
		case errors.Is(err, repository.ErrProgramNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		case errors.Is(err, repository.ErrInvalidOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder columns"})
		}
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionUpdate,
		EntityType: "column",
		Details:    map[string]interface{}{"program_id": programID, "reordered": len(order)},
		IPAddress:  c.ClientIP(),
	})

	response, ok := h.columnsResponse(c, programID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response)
}
