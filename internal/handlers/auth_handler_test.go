package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/esticore/auth-api/internal/api/dto"
	"github.com/esticore/auth-api/internal/auth"
	"github.com/esticore/auth-api/internal/middleware"
	"github.com/esticore/auth-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==============================================
// MOCK SERVICE
// ==============================================

type MockAuthService struct {
	SignupFunc             func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	LoginFunc              func(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyOTPFunc          func(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyResponse, error)
	VerifyLegacyFunc       func(ctx context.Context, tokenValue string) (*dto.VerifyResponse, error)
	ResendVerificationFunc func(ctx context.Context, req dto.ResendVerificationRequest) (*dto.ResendVerificationResponse, error)
	CurrentUserFunc        func(ctx context.Context, userID int) (*dto.MeResponse, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	return m.SignupFunc(ctx, req)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.LoginFunc(ctx, req)
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyResponse, error) {
	return m.VerifyOTPFunc(ctx, req)
}

func (m *MockAuthService) VerifyLegacy(ctx context.Context, tokenValue string) (*dto.VerifyResponse, error) {
	return m.VerifyLegacyFunc(ctx, tokenValue)
}

func (m *MockAuthService) ResendVerification(ctx context.Context, req dto.ResendVerificationRequest) (*dto.ResendVerificationResponse, error) {
	return m.ResendVerificationFunc(ctx, req)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID int) (*dto.MeResponse, error) {
	return m.CurrentUserFunc(ctx, userID)
}

// ==============================================
// TEST HELPERS
// ==============================================

const testJWTSecret = "handler-test-secret"

func setupRouter(service AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAuthHandler(service).RegisterRoutes(router, middleware.RequireAuth(testJWTSecret))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ==============================================
// SIGNUP
// ==============================================

func TestSignupEndpoint_Success(t *testing.T) {
	service := &MockAuthService{
		SignupFunc: func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
			return &dto.SignupResponse{
				User:                  &models.PublicUser{ID: 1, Email: req.Email},
				Message:               "User created successfully. Please check your email to verify your account.",
				RequiresVerification:  true,
				VerificationEmailSent: true,
			}, nil
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/signup", gin.H{
		"firstname":        "Ada",
		"lastname":         "Lovelace",
		"email":            "ada@example.com",
		"password":         "correct-horse",
		"confirm_password": "correct-horse",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.SignupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.RequiresVerification)
	assert.True(t, resp.VerificationEmailSent)
}

func TestSignupEndpoint_BindingFailures(t *testing.T) {
	service := &MockAuthService{
		SignupFunc: func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
			t.Fatal("service must not be called on binding failure")
			return nil, nil
		},
	}
	router := setupRouter(service)

	cases := map[string]gin.H{
		"missing email": {
			"firstname": "Ada", "lastname": "L",
			"password": "correct-horse", "confirm_password": "correct-horse",
		},
		"bad email": {
			"firstname": "Ada", "lastname": "L", "email": "not-an-email",
			"password": "correct-horse", "confirm_password": "correct-horse",
		},
		"password confirmation mismatch": {
			"firstname": "Ada", "lastname": "L", "email": "ada@example.com",
			"password": "correct-horse", "confirm_password": "other",
		},
		"short password": {
			"firstname": "Ada", "lastname": "L", "email": "ada@example.com",
			"password": "short", "confirm_password": "short",
		},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := postJSON(t, router, "/auth/signup", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSignupEndpoint_DuplicateEmail(t *testing.T) {
	service := &MockAuthService{
		SignupFunc: func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
			return nil, models.ErrEmailAlreadyExists
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/signup", gin.H{
		"firstname": "Ada", "lastname": "L", "email": "ada@example.com",
		"password": "correct-horse", "confirm_password": "correct-horse",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ErrCodeEmailExists, resp.Error)
}

// ==============================================
// LOGIN
// ==============================================

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
			return nil, models.ErrInvalidCredentials
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/login", gin.H{"email": "ada@example.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginEndpoint_RequiresVerification(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
			return &dto.LoginResponse{
				Message:               "Please verify your email address before logging in. We've sent a new verification code.",
				RequiresVerification:  true,
				VerificationEmailSent: true,
			}, nil
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/login", gin.H{"email": "ada@example.com", "password": "correct-horse"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.RequiresVerification)
	assert.Empty(t, resp.AccessToken)
}

// ==============================================
// VERIFY
// ==============================================

// Expired, superseded, mismatched and unknown all surface exactly the
// same wire response.
func TestVerifyOTPEndpoint_UniformError(t *testing.T) {
	service := &MockAuthService{
		VerifyOTPFunc: func(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyResponse, error) {
			return nil, models.ErrInvalidVerification
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/verify-otp", gin.H{"email": "ada@example.com", "otp": "000000"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ErrCodeInvalidVerification, resp.Error)
	assert.Equal(t, "Invalid verification code", resp.Message)
}

func TestVerifyOTPEndpoint_Success(t *testing.T) {
	service := &MockAuthService{
		VerifyOTPFunc: func(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyResponse, error) {
			return &dto.VerifyResponse{Message: "Email verified successfully! You can now log in.", Verified: true}, nil
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/verify-otp", gin.H{"email": "ada@example.com", "otp": "123456"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyLegacyEndpoint(t *testing.T) {
	var received string
	service := &MockAuthService{
		VerifyLegacyFunc: func(ctx context.Context, tokenValue string) (*dto.VerifyResponse, error) {
			received = tokenValue
			return &dto.VerifyResponse{Verified: true}, nil
		},
	}
	router := setupRouter(service)

	req, _ := http.NewRequest(http.MethodGet, "/auth/verify?token=opaque-legacy-value", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "opaque-legacy-value", received)
}

func TestVerifyLegacyEndpoint_MissingToken(t *testing.T) {
	service := &MockAuthService{
		VerifyLegacyFunc: func(ctx context.Context, tokenValue string) (*dto.VerifyResponse, error) {
			t.Fatal("service must not be called without a token")
			return nil, nil
		},
	}
	router := setupRouter(service)

	req, _ := http.NewRequest(http.MethodGet, "/auth/verify", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==============================================
// ME (authenticated)
// ==============================================

func TestMeEndpoint_ValidToken(t *testing.T) {
	service := &MockAuthService{
		CurrentUserFunc: func(ctx context.Context, userID int) (*dto.MeResponse, error) {
			return &dto.MeResponse{User: &models.PublicUser{ID: userID, Email: "ada@example.com"}}, nil
		},
	}
	router := setupRouter(service)

	token, _, err := auth.GenerateJWT(42, testJWTSecret)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.User.ID)
}

func TestMeEndpoint_Unauthorized(t *testing.T) {
	service := &MockAuthService{
		CurrentUserFunc: func(ctx context.Context, userID int) (*dto.MeResponse, error) {
			t.Fatal("service must not be called without a valid token")
			return nil, nil
		},
	}
	router := setupRouter(service)

	badToken, _, err := auth.GenerateJWT(42, "some-other-secret")
	require.NoError(t, err)

	cases := map[string]string{
		"no header":       "",
		"not bearer":      "Basic abc",
		"garbage token":   "Bearer not-a-jwt",
		"wrong signature": "Bearer " + badToken,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, models.ErrCodeUnauthorized, resp.Error)
		})
	}
}

// ==============================================
// RESEND
// ==============================================

func TestResendEndpoint_UserNotFound(t *testing.T) {
	service := &MockAuthService{
		ResendVerificationFunc: func(ctx context.Context, req dto.ResendVerificationRequest) (*dto.ResendVerificationResponse, error) {
			return nil, models.ErrUserNotFound
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/resend-verification", gin.H{"email": "ghost@example.com"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResendEndpoint_AlreadyVerified(t *testing.T) {
	service := &MockAuthService{
		ResendVerificationFunc: func(ctx context.Context, req dto.ResendVerificationRequest) (*dto.ResendVerificationResponse, error) {
			return &dto.ResendVerificationResponse{
				Email:           req.Email,
				Message:         "Email is already verified",
				AlreadyVerified: true,
			}, nil
		},
	}
	router := setupRouter(service)

	w := postJSON(t, router, "/auth/resend-verification", gin.H{"email": "ada@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ResendVerificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.AlreadyVerified)
}
