package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	jwtSecret    string
	tokenTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		auditService: auditService,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=4,max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=100"`
}

// MessageResponse is returned by operations without a payload.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// LoginResponse carries the session token and the user's display data.
type LoginResponse struct {
	Message  string `json:"message"`
	Success  bool   `json:"success"`
	JWTToken string `json:"jwtToken"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Signup handles user registration
// @Summary     Register a new user
// @Description Register a new user with name, email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "User signup data"
// @Success     201 {object} MessageResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "SIGNUP", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, MessageResponse{Message: "Signup successfully", Success: true})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} LoginResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret, h.tokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, LoginResponse{
		Message:  "Login Success",
		Success:  true,
		JWTToken: token,
		Email:    user.Email,
		Name:     user.Name,
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}
