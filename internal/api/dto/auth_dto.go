package dto

import "github.com/esticore/auth-api/internal/models"

// ==============================================
// AUTH REQUEST DTOs
// ==============================================

type SignupRequest struct {
	FirstName       string `json:"firstname" binding:"required,min=1,max=100"`
	LastName        string `json:"lastname" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPRequest - email plus the presented short code. The code is not
// shape-validated here, the verifier treats any non-matching value alike.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ==============================================
// AUTH RESPONSE DTOs
// ==============================================

// SignupResponse reports the created account together with whether a code
// was actually dispatched. Email delivery can fail independently of
// account creation, the two flags are never folded together.
type SignupResponse struct {
	User                  *models.PublicUser `json:"user"`
	Message               string             `json:"message"`
	RequiresVerification  bool               `json:"requires_verification"`
	VerificationEmailSent bool               `json:"verification_email_sent"`
}

// LoginResponse covers both outcomes: a successful login carries an access
// token, a refused login against an unverified account carries the
// verification flags instead.
type LoginResponse struct {
	User                  *models.PublicUser `json:"user"`
	Message               string             `json:"message"`
	Verified              bool               `json:"verified"`
	RequiresVerification  bool               `json:"requires_verification,omitempty"`
	VerificationEmailSent bool               `json:"verification_email_sent,omitempty"`
	AccessToken           string             `json:"access_token,omitempty"`
	ExpiresIn             int                `json:"expires_in,omitempty"`
	TokenType             string             `json:"token_type,omitempty"`
}

type VerifyResponse struct {
	User            *models.PublicUser `json:"user,omitempty"`
	Message         string             `json:"message"`
	Verified        bool               `json:"verified"`
	AlreadyVerified bool               `json:"already_verified,omitempty"`
}

// MeResponse is the authenticated account profile.
type MeResponse struct {
	User *models.PublicUser `json:"user"`
}

type ResendVerificationResponse struct {
	Email                 string `json:"email"`
	Message               string `json:"message"`
	AlreadyVerified       bool   `json:"already_verified,omitempty"`
	VerificationEmailSent bool   `json:"verification_email_sent"`
}

// ==============================================
// COMMON RESPONSE DTOs
// ==============================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
