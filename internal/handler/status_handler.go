package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "Patient Manager API"
	ServiceVersion = "1.0"
)

type StatusHandler struct {
	endpoints []EndpointInfo
}

type EndpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type APIInfoResponse struct {
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	EndpointCount int            `json:"endpoint_count"`
	Endpoints     []EndpointInfo `json:"endpoints"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Message string `json:"message"`
}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{endpoints: []EndpointInfo{
		{Path: "/api/health", Methods: []string{"GET"}, Description: "Health check endpoint"},
		{Path: "/api/login", Methods: []string{"POST"}, Description: "User authentication"},
		{Path: "/api/patients", Methods: []string{"GET", "POST"}, Description: "Retrieve or create patients"},
		{Path: "/api/patients/:id", Methods: []string{"GET", "PUT", "DELETE"}, Description: "Retrieve, update, or delete a specific patient"},
		{Path: "/api/shared_patients", Methods: []string{"GET"}, Description: "Get patients shared with a specific user"},
		{Path: "/api/programs", Methods: []string{"GET", "POST"}, Description: "Retrieve or create programs"},
		{Path: "/api/programs/:id", Methods: []string{"GET", "PUT", "DELETE"}, Description: "Retrieve, update, or delete a specific program"},
		{Path: "/api/programs/:id/columns", Methods: []string{"GET", "POST"}, Description: "Retrieve or append board columns of a program"},
		{Path: "/api/programs/:id/columns/reorder", Methods: []string{"POST"}, Description: "Reorder the board columns of a program"},
		{Path: "/api/columns/:id", Methods: []string{"GET", "PUT", "DELETE"}, Description: "Retrieve, rename, or delete a board column"},
		{Path: "/api/tasks", Methods: []string{"GET", "POST"}, Description: "Retrieve or create tasks"},
		{Path: "/api/tasks/:id", Methods: []string{"GET", "PUT", "DELETE"}, Description: "Retrieve, update, or delete a specific task"},
		{Path: "/api/tasks/:id/move", Methods: []string{"POST"}, Description: "Move a task to another column of its board"},
		{Path: "/api/users", Methods: []string{"GET", "POST"}, Description: "Retrieve or create users"},
		{Path: "/api/users/:id", Methods: []string{"GET", "PUT", "DELETE"}, Description: "Retrieve, update, or delete a specific user"},
		{Path: "/api/shared_access", Methods: []string{"GET", "POST"}, Description: "Get or create shared access records"},
		{Path: "/api/shared_access/:id", Methods: []string{"PUT", "DELETE"}, Description: "Update or delete a shared access record"},
		{Path: "/api/audit_logs", Methods: []string{"GET"}, Description: "List audit log entries"},
	}}
}

// Root answers the bare server root so a browser hitting the host sees
// a status message instead of a 404.
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Service: ServiceName,
		Version: ServiceVersion,
		Message: "Server is running. See /api for the endpoint list.",
	})
}

// Info godoc
// @Summary      Service information
// @Description  Service name, version and endpoint inventory
// @Tags         Status
// @Produce      json
// @Success      200  {object}  handler.APIInfoResponse
// @Router       / [get]
func (h *StatusHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, APIInfoResponse{
		Name:          ServiceName,
		Version:       ServiceVersion,
		EndpointCount: len(h.endpoints),
		Endpoints:     h.endpoints,
	})
}

// Health godoc
// @Summary      Health check
// @Tags         Status
// @Produce      json
// @Success      200  {object}  handler.HealthResponse
// @Router       /health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "OK", Message: "Server is running"})
}
