package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/esticore/auth-api/internal/api/dto"
	"github.com/esticore/auth-api/internal/middleware"
	"github.com/esticore/auth-api/internal/models"
	"github.com/gin-gonic/gin"
)

// ==============================================
// SERVICE INTERFACE (for testing)
// ==============================================

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyResponse, error)
	VerifyLegacy(ctx context.Context, tokenValue string) (*dto.VerifyResponse, error)
	ResendVerification(ctx context.Context, req dto.ResendVerificationRequest) (*dto.ResendVerificationResponse, error)
	CurrentUser(ctx context.Context, userID int) (*dto.MeResponse, error)
}

// ==============================================
// HANDLER (HTTP Layer ONLY)
// ==============================================

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// ==============================================
// ENDPOINTS
// ==============================================

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// VerifyOTP handles POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// VerifyLegacy handles GET /auth/verify?token=... (pre-cutover link flow)
func (h *AuthHandler) VerifyLegacy(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Invalid request", errors.New("token is required"))
		return
	}

	resp, err := h.service.VerifyLegacy(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// ResendVerification handles POST /auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	resp, err := h.service.ResendVerification(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// Me handles GET /auth/me (requires a valid access token)
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	resp, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, resp)
}

// ==============================================
// ROUTE REGISTRATION
// ==============================================

func (h *AuthHandler) RegisterRoutes(router *gin.Engine, authRequired gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.GET("/verify", h.VerifyLegacy)
		auth.POST("/resend-verification", h.ResendVerification)
		auth.GET("/me", authRequired, h.Me)
	}
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

func respondSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func respondError(c *gin.Context, statusCode int, message string, err error) {
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

func respondServiceError(c *gin.Context, err error) {
	statusCode, code, message := mapServiceError(err)
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// mapServiceError maps service errors to HTTP status codes and
// user-facing messages. All verification failures arrive here already
// collapsed into ErrInvalidVerification.
func mapServiceError(err error) (int, string, string) {
	switch {
	case errors.Is(err, models.ErrInvalidVerification):
		return http.StatusBadRequest, models.ErrCodeInvalidVerification, "Invalid verification code"
	case errors.Is(err, models.ErrEmailAlreadyExists):
		return http.StatusBadRequest, models.ErrCodeEmailExists, "Email already exists"
	case errors.Is(err, models.ErrPasswordMismatch):
		return http.StatusBadRequest, models.ErrCodeValidationFailed, "Passwords do not match"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, models.ErrCodeNotFound, "User not found"
	case errors.Is(err, models.ErrAlreadyVerified):
		return http.StatusBadRequest, models.ErrCodeAlreadyVerified, "Email is already verified"
	default:
		return http.StatusInternalServerError, models.ErrCodeInternalError, "Internal server error"
	}
}
