// Package apiclient is the HTTP client for the Patient Manager API.
// It speaks the same JSON shapes the handler package serves.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"patientmanager/internal/handler"
)

// ErrUnreachable wraps transport-level failures so callers can tell a
// dead server apart from an API error.
var ErrUnreachable = errors.New("server unreachable")

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Code, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New builds a client for a base URL like "http://localhost:8080/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs a session token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*handler.LoginResponse, error) {
	var resp handler.LoginResponse
	req := handler.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (*handler.HealthResponse, error) {
	var resp handler.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Patients ---

func (c *Client) Patients(ctx context.Context, userID uint) ([]handler.PatientResponse, error) {
	path := "/patients"
	if userID != 0 {
		path = fmt.Sprintf("/patients?user_id=%d", userID)
	}
	var resp handler.PatientsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Patients, nil
}

func (c *Client) SharedPatients(ctx context.Context, userID uint) ([]handler.PatientResponse, error) {
	var resp handler.SharedPatientsResponse
	path := fmt.Sprintf("/shared_patients?user_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.SharedPatients, nil
}

func (c *Client) Patient(ctx context.Context, id uint) (*handler.PatientResponse, error) {
	var resp handler.PatientDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Patient, nil
}

func (c *Client) CreatePatient(ctx context.Context, req handler.CreatePatientRequest) (*handler.PatientResponse, error) {
	var resp handler.PatientDetailResponse
	if err := c.do(ctx, http.MethodPost, "/patients", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Patient, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id uint, req handler.UpdatePatientRequest) (*handler.PatientResponse, error) {
	var resp handler.PatientDetailResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/patients/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Patient, nil
}

func (c *Client) DeletePatient(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/patients/%d", id), nil, nil)
}

// --- Programs ---

func (c *Client) Programs(ctx context.Context, patientID uint) ([]handler.ProgramResponse, error) {
	var resp handler.ProgramsResponse
	path := fmt.Sprintf("/programs?patient_id=%d", patientID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Programs, nil
}

func (c *Client) Program(ctx context.Context, id uint) (*handler.ProgramResponse, error) {
	var resp handler.ProgramDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/programs/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Program, nil
}

func (c *Client) CreateProgram(ctx context.Context, req handler.CreateProgramRequest) (*handler.ProgramResponse, error) {
	var resp handler.ProgramDetailResponse
	if err := c.do(ctx, http.MethodPost, "/programs", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Program, nil
}

func (c *Client) UpdateProgram(ctx context.Context, id uint, req handler.UpdateProgramRequest) (*handler.ProgramResponse, error) {
	var resp handler.ProgramDetailResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/programs/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Program, nil
}

func (c *Client) DeleteProgram(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/programs/%d", id), nil, nil)
}

// --- Board columns ---

func (c *Client) Columns(ctx context.Context, programID uint) ([]handler.ColumnResponse, error) {
	var resp handler.ColumnsResponse
	path := fmt.Sprintf("/programs/%d/columns", programID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

func (c *Client) Column(ctx context.Context, id uint) (*handler.ColumnResponse, error) {
	var resp handler.ColumnDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/columns/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Column, nil
}

func (c *Client) AppendColumn(ctx context.Context, programID uint, title string) (*handler.ColumnResponse, error) {
	var resp handler.ColumnDetailResponse
	path := fmt.Sprintf("/programs/%d/columns", programID)
	if err := c.do(ctx, http.MethodPost, path, handler.AppendColumnRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp.Column, nil
}

func (c *Client) RenameColumn(ctx context.Context, id uint, title string) (*handler.ColumnResponse, error) {
	var resp handler.ColumnDetailResponse
	path := fmt.Sprintf("/columns/%d", id)
	if err := c.do(ctx, http.MethodPut, path, handler.RenameColumnRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp.Column, nil
}

func (c *Client) DeleteColumn(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/columns/%d", id), nil, nil)
}

func (c *Client) ReorderColumns(ctx context.Context, programID uint, req handler.ReorderColumnsRequest) ([]handler.ColumnResponse, error) {
	var resp handler.ColumnsResponse
	path := fmt.Sprintf("/programs/%d/columns/reorder", programID)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

// --- Tasks ---

func (c *Client) Tasks(ctx context.Context, programID uint) ([]handler.TaskResponse, error) {
	var resp handler.TasksResponse
	path := fmt.Sprintf("/tasks?program_id=%d", programID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) Task(ctx context.Context, id uint) (*handler.TaskResponse, error) {
	var resp handler.TaskDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) CreateTask(ctx context.Context, req handler.CreateTaskRequest) (*handler.TaskResponse, error) {
	var resp handler.TaskDetailResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uint, req handler.UpdateTaskRequest) (*handler.TaskResponse, error) {
	var resp handler.TaskDetailResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) MoveTask(ctx context.Context, id, columnID uint) (*handler.TaskResponse, error) {
	var resp handler.TaskDetailResponse
	path := fmt.Sprintf("/tasks/%d/move", id)
	if err := c.do(ctx, http.MethodPost, path, handler.MoveTaskRequest{ColumnID: columnID}, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// --- Users ---

func (c *Client) Users(ctx context.Context) ([]handler.UserResponse, error) {
	var resp handler.UsersResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) User(ctx context.Context, id uint) (*handler.UserResponse, error) {
	var resp handler.UserDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) CreateUser(ctx context.Context, req handler.CreateUserRequest) (*handler.UserResponse, error) {
	var resp handler.UserDetailResponse
	if err := c.do(ctx, http.MethodPost, "/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, req handler.UpdateUserRequest) (*handler.UserResponse, error) {
	var resp handler.UserDetailResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// --- Shared access ---

func (c *Client) SharedAccess(ctx context.Context, patientID uint) ([]handler.SharedAccessResponse, error) {
	var resp handler.SharedAccessListResponse
	path := fmt.Sprintf("/shared_access?patient_id=%d", patientID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.SharedAccess, nil
}

func (c *Client) GrantAccess(ctx context.Context, req handler.GrantAccessRequest) (*handler.SharedAccessResponse, error) {
	var resp handler.SharedAccessDetailResponse
	if err := c.do(ctx, http.MethodPost, "/shared_access", req, &resp); err != nil {
		return nil, err
	}
	return &resp.SharedAccess, nil
}

func (c *Client) UpdateAccess(ctx context.Context, id uint, accessLevel string) (*handler.SharedAccessResponse, error) {
	var resp handler.SharedAccessDetailResponse
	path := fmt.Sprintf("/shared_access/%d", id)
	if err := c.do(ctx, http.MethodPut, path, handler.UpdateAccessRequest{AccessLevel: accessLevel}, &resp); err != nil {
		return nil, err
	}
	return &resp.SharedAccess, nil
}

func (c *Client) RevokeAccess(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/shared_access/%d", id), nil, nil)
}

// --- Audit logs ---

func (c *Client) AuditLogs(ctx context.Context, query string) ([]handler.AuditLogResponse, error) {
	path := "/audit_logs"
	if query != "" {
		path += "?" + query
	}
	var resp handler.AuditLogsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.AuditLogs, nil
}
