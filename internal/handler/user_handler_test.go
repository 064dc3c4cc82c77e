package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"patientmanager/internal/auth"
	"patientmanager/internal/handler"
	"patientmanager/internal/middleware"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

const testSecret = "test-secret"

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupUserTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockRepo := new(MockUserRepository)

	// Audit is nil-safe; the console fallback is enough for handler tests.
	userHandler := handler.NewUserHandler(mockRepo, testSecret, time.Hour, nil)

	r.POST("/api/login", userHandler.Login)

	authorized := r.Group("/api")
	authorized.Use(middleware.JWTAuthMiddleware(testSecret))
	authorized.POST("/users", userHandler.Create)
	authorized.GET("/users/:id", userHandler.GetByID)
	authorized.PUT("/users/:id", userHandler.Update)
	authorized.DELETE("/users/:id", userHandler.Delete)

	return r, mockRepo
}

func seededUser(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &model.User{
		ID:       1,
		Username: username,
		Password: string(hash),
		Name:     "System Administrator",
		Role:     model.RoleAdmin,
	}
}

func authHeader(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, time.Hour)
	assert.NoError(t, err)
	return "Bearer " + token
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("FindByUsername", mock.Anything, "admin").
		Return(seededUser(t, "admin", "admin123"), nil)

	body, _ := json.Marshal(handler.LoginRequest{Username: "admin", Password: "admin123"})
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var loginResp handler.LoginResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginResp))
	assert.True(t, loginResp.Success)
	assert.NotEmpty(t, loginResp.Token)
	assert.Equal(t, "admin", loginResp.User.Username)

	// The token must resolve back to the same user.
	parsedID, err := auth.ParseToken(testSecret, loginResp.Token)
	assert.NoError(t, err)
	assert.Equal(t, loginResp.User.ID, parsedID)

	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("FindByUsername", mock.Anything, "admin").
		Return(seededUser(t, "admin", "admin123"), nil)

	body, _ := json.Marshal(handler.LoginRequest{Username: "admin", Password: "wrong"})
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid username or password")
}

func TestLogin_UnknownUser(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, nil)

	body, _ := json.Marshal(handler.LoginRequest{Username: "ghost", Password: "whatever"})
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid username or password")
}

func TestLogin_MissingFields(t *testing.T) {
	// Arrange
	router, _ := setupUserTest()

	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBufferString(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Username and password are required")
}

func TestCreateUser_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("FindByUsername", mock.Anything, "newuser").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		return user.Username == "newuser" && user.Role == model.RoleProvider
	})).Return(nil)

	body, _ := json.Marshal(handler.CreateUserRequest{
		Username: "NewUser",
		Password: "secret123",
		Name:     "New User",
	})
	req, _ := http.NewRequest("POST", "/api/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var detail handler.UserDetailResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.Equal(t, "newuser", detail.User.Username)
	assert.Equal(t, model.RoleProvider, detail.User.Role)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("FindByUsername", mock.Anything, "taken").
		Return(&model.User{ID: 2, Username: "taken"}, nil)

	body, _ := json.Marshal(handler.CreateUserRequest{Username: "taken", Password: "secret123"})
	req, _ := http.NewRequest("POST", "/api/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "User with this username already exists")
}

func TestCreateUser_Unauthenticated(t *testing.T) {
	// Arrange
	router, _ := setupUserTest()

	body, _ := json.Marshal(handler.CreateUserRequest{Username: "newuser", Password: "secret123"})
	req, _ := http.NewRequest("POST", "/api/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUpdateUser_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	existing := seededUser(t, "carol", "oldpass123")
	existing.ID = 7
	oldHash := existing.Password
	mockRepo.On("GetByID", mock.Anything, uint(7)).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		return user.ID == 7 &&
			user.Name == "Carol Reyes" &&
			user.Role == model.RoleAssistant &&
			user.Password != oldHash
	})).Return(nil)

	body, _ := json.Marshal(handler.UpdateUserRequest{
		Name:     "Carol Reyes",
		Role:     model.RoleAssistant,
		Password: "newpass123",
	})
	req, _ := http.NewRequest("PUT", "/api/users/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var detail handler.UserDetailResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.Equal(t, "carol", detail.User.Username)
	assert.Equal(t, "Carol Reyes", detail.User.Name)
	assert.Equal(t, model.RoleAssistant, detail.User.Role)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("GetByID", mock.Anything, uint(42)).Return(nil, nil)

	body, _ := json.Marshal(handler.UpdateUserRequest{Name: "Nobody"})
	req, _ := http.NewRequest("PUT", "/api/users/42", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "User not found")
}

func TestDeleteUser_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("Delete", mock.Anything, uint(7)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/users/7", nil)
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":true`)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("Delete", mock.Anything, uint(42)).Return(repository.ErrUserNotFound)

	req, _ := http.NewRequest("DELETE", "/api/users/42", nil)
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "User not found")
}

func TestGetUserByID_NotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()
	mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)

	req, _ := http.NewRequest("GET", "/api/users/99", nil)
	req.Header.Set("Authorization", authHeader(t, 1))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "User not found")
}
