package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"patientmanager/internal/audit"
	"patientmanager/internal/auth"
	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

type UserHandler struct {
	repo      repository.UserRepositoryInterface
	jwtSecret string
	jwtExpiry time.Duration
	audit     *audit.Logger
}

func NewUserHandler(repo repository.UserRepositoryInterface, jwtSecret string, jwtExpiry time.Duration, auditLogger *audit.Logger) *UserHandler {
	return &UserHandler{
		repo:      repo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		audit:     auditLogger,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=admin provider assistant"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=admin provider assistant"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

type UserDetailResponse struct {
	User UserResponse `json:"user"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Checks a username/password pair and returns a session token
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        credentials  body      handler.LoginRequest  true  "Credentials"
// @Success      200          {object}  handler.LoginResponse
// @Failure      400          {object}  map[string]string
// @Failure      401          {object}  map[string]string
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := h.repo.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if user == nil {
		h.recordLogin(c, nil, req.Username, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.recordLogin(c, nil, req.Username, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, h.jwtExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.recordLogin(c, &user.ID, req.Username, true)

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User:    toUserResponse(user),
	})
}

func (h *UserHandler) recordLogin(c *gin.Context, userID *uint, username string, success bool) {
	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     userID,
		Action:     model.ActionLogin,
		EntityType: "user",
		EntityID:   userID,
		Details:    map[string]interface{}{"username": username, "success": success},
		IPAddress:  c.ClientIP(),
	})
}

// Create godoc
// @Summary      Create a user account
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user  body      handler.CreateUserRequest  true  "New user"
// @Success      201   {object}  handler.UserDetailResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	creatorID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Username = strings.ToLower(req.Username)

	existing, err := h.repo.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleProvider
	}

	user := &model.User{
		Username: req.Username,
		Password: string(hash),
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &creatorID,
		Action:     model.ActionCreate,
		EntityType: "user",
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"username": user.Username, "role": user.Role},
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusCreated, UserDetailResponse{User: toUserResponse(user)})
}

// GetByID godoc
// @Summary      Get user information by ID
// @Tags         Users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  handler.UserDetailResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, UserDetailResponse{User: toUserResponse(user)})
}

// Update godoc
// @Summary      Update a user's profile
// @Description  Name, email, role and password may change; the username is immutable
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "User ID"
// @Param        user  body      handler.UpdateUserRequest  true  "Updated fields"
// @Success      200   {object}  handler.UserDetailResponse
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	editorID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = string(hash)
	}

	if err := h.repo.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &editorID,
		Action:     model.ActionUpdate,
		EntityType: "user",
		EntityID:   &user.ID,
		Details: map[string]interface{}{
			"username":         user.Username,
			"role":             user.Role,
			"password_changed": req.Password != "",
		},
		IPAddress: c.ClientIP(),
	})

	c.JSON(http.StatusOK, UserDetailResponse{User: toUserResponse(user)})
}

// Delete godoc
// @Summary      Delete a user account
// @Tags         Users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	editorID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Event{
		UserID:     &editorID,
		Action:     model.ActionDelete,
		EntityType: "user",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
	})

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// GetAll godoc
// @Summary      List all users
// @Tags         Users
// @Produce      json
// @Success      200  {object}  handler.UsersResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) GetAll(c *gin.Context) {
	if _, ok := authenticatedUser(c); !ok {
		return
	}

	users, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := UsersResponse{Users: make([]UserResponse, len(users))}
	for i := range users {
		response.Users[i] = toUserResponse(&users[i])
	}

	c.JSON(http.StatusOK, response)
}
