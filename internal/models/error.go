package models

import "errors"

// ==============================================
// PREDEFINED ERRORS
// ==============================================

// User/Auth Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password too weak")
)

// Verification token errors. The first three are collapsed into one
// uniform client-facing message at the orchestration boundary so a caller
// cannot tell a wrong code from an expired or missing one.
var (
	ErrNoPendingToken  = errors.New("no pending verification token")
	ErrTokenExpired    = errors.New("verification token has expired")
	ErrTokenMismatch   = errors.New("verification token mismatch")
	ErrAlreadyVerified = errors.New("account already verified")
	ErrTokenConflict   = errors.New("verification token already consumed or superseded")
)

// ErrInvalidVerification is the uniform verification failure surfaced to
// clients for no-pending, expired and mismatch alike.
var ErrInvalidVerification = errors.New("invalid verification code")

// ==============================================
// ERROR CODES (for API responses)
// ==============================================
const (
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeEmailExists         = "EMAIL_EXISTS"
	ErrCodeInvalidVerification = "INVALID_VERIFICATION"
	ErrCodeAlreadyVerified     = "ALREADY_VERIFIED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// IsVerificationFailure checks whether err is one of the three internal
// verification failure kinds that must not be distinguished externally.
func IsVerificationFailure(err error) bool {
	return errors.Is(err, ErrNoPendingToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMismatch)
}
