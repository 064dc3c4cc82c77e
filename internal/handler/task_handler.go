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

type TaskHandler struct {
	repo  *repository.TaskRepository
	audit *audit.Logger
}

func NewTaskHandler(repo *repository.TaskRepository, auditLogger *audit.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, audit: auditLogger}
}

type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ProgramID   uint   `json:"program_id" binding:"required"`
	ColumnID    uint   `json:"column_id"`
}

type UpdateTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type MoveTaskRequest struct {
	ColumnID uint `json:"column_id" binding:"required"`
}

type TaskResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProgramID   uint      `json:"program_id"`
	ColumnID    uint      `json:"column_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type TasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type TaskDetailResponse struct {
	Success bool         `json:"success,omitempty"`
	Task    TaskResponse `json:"task"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		ProgramID:   task.ProgramID,
		ColumnID:    task.ColumnID,
		CreatedAt:   task.CreatedAt,
	}
}

// GetAll godoc
// @Summary      List a program's tasks
// @Tags         Tasks
// @Produce      json
// @Param        program_id  query     int  true   "Program ID"
// @Param        column_id   query     int  false  "Restrict to one board column"
// @Success      200         {object}  handler.TasksResponse
// @Failure      400         {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	programID, ok := parseUintQuery(c, "program_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing program_id parameter"})
		return
	}

	var (
		tasks []model.Task
		err   error
	)
	if columnID, ok := parseUintQuery(c, "column_id"); ok {
		tasks, err = h.repo.GetByColumn(c.Request.Context(), columnID)
	} else {
		tasks, err = h.repo.GetByProgram(c.Request.Context(), programID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := TasksResponse{Tasks: make([]TaskResponse, len(tasks))}
	for i := range tasks {
		response.Tasks[i] = toTaskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Get a specific task
// @Tags         Tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  handler.TaskDetailResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, TaskDetailResponse{Task: toTaskResponse(task)})
}

// Create godoc
// @Summary      Add a new task
// @Description  The task lands in the board's first column unless column_id names another column of the same program
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        task  body      handler.CreateTaskRequest  true  "New task"
// @Success      201   {object}  handler.TaskDetailResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (name, program_id)"})
		return
	}

	task := &model.Task{
		Name:        req.Name,
		Description: req.Description,
		ProgramID:   req.ProgramID,
		ColumnID:    req.ColumnID,
	}
	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		switch {
		case errors.Is(err, repository.ErrProgramNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		case errors.Is(err, repository.ErrColumnNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		case errors.Is(err, repository.ErrColumnMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		}
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionCreate,
		EntityType: "task",
		EntityID:   &task.ID,
		Details:    map[string]interface{}{"name": task.Name, "program_id": task.ProgramID},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusCreated, TaskDetailResponse{Success: true, Task: toTaskResponse(task)})
}

// Update godoc
// @Summary      Update a task's name and description
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "Task ID"
// @Param        task  body      handler.UpdateTaskRequest  true  "Updated fields"
// @Success      200   {object}  handler.TaskDetailResponse
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field (name)"})
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	task.Name = req.Name
	task.Description = req.Description

	if err := h.repo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionUpdate,
		EntityType: "task",
		EntityID:   &task.ID,
		Details:    map[string]interface{}{"name": task.Name},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, TaskDetailResponse{Success: true, Task: toTaskResponse(task)})
}

// Move godoc
// @Summary      Move a task to another column
// @Description  Only the task's column assignment changes; the target must belong to the same program
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Task ID"
// @Param        move  body      handler.MoveTaskRequest  true  "Target column"
// @Success      200   {object}  handler.TaskDetailResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id}/move [post]
func (h *TaskHandler) Move(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field (column_id)"})
		return
	}

	task, err := h.repo.Move(c.Request.Context(), id, req.ColumnID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, repository.ErrColumnNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		case errors.Is(err, repository.ErrColumnMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		}
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionUpdate,
		EntityType: "task",
		EntityID:   &task.ID,
		Details:    map[string]interface{}{"moved_to_column": task.ColumnID},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, TaskDetailResponse{Success: true, Task: toTaskResponse(task)})
}

// Delete godoc
// @Summary      Delete a task
// @Tags         Tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &userID,
		Action:     model.ActionDelete,
		EntityType: "task",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
