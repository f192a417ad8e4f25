package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/esticore/auth-api/internal/api/dto"
	"github.com/esticore/auth-api/internal/auth"
	"github.com/esticore/auth-api/internal/models"
)

// ==============================================
// AUTH SERVICE (verification orchestrator)
// ==============================================

// AuthService coordinates the issuer, verifier, stores and the email
// sender across the account-facing operations. All internal verification
// failure kinds leave this layer as the single ErrInvalidVerification.
type AuthService struct {
	users     UserStore
	issuer    *Issuer
	verifier  *Verifier
	email     EmailSender
	jwtSecret string
	logger    *slog.Logger
}

func NewAuthService(
	users UserStore,
	issuer *Issuer,
	verifier *Verifier,
	email EmailSender,
	jwtSecret string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		issuer:    issuer,
		verifier:  verifier,
		email:     email,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// ==============================================
// SIGNUP
// ==============================================

func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	email := normalizeEmail(req.Email)

	if req.Password != req.ConfirmPassword {
		return nil, models.ErrPasswordMismatch
	}

	// 1. Check if email already exists
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, models.ErrEmailAlreadyExists
	}

	// 2. Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. Create user
	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: passwordHash,
		AuthOrigin:   models.AuthOriginLocal,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 4. Issue and send a short code. The account survives either failing.
	emailSent := s.issueAndSend(ctx, user)

	return &dto.SignupResponse{
		User:                  user.ToPublic(),
		Message:               "User created successfully. Please check your email to verify your account.",
		RequiresVerification:  true,
		VerificationEmailSent: emailSent,
	}, nil
}

// ==============================================
// LOGIN
// ==============================================

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Password is always checked first. A bad password never triggers a
	// resend and never reveals verification state.
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsVerified && !user.IsFederated() {
		// Refuse login and transparently reissue: fresh code, old one
		// superseded.
		emailSent := s.issueAndSend(ctx, user)

		return &dto.LoginResponse{
			User:                  user.ToPublic(),
			Message:               "Please verify your email address before logging in. We've sent a new verification code.",
			Verified:              false,
			RequiresVerification:  true,
			VerificationEmailSent: emailSent,
		}, nil
	}

	token, expiresIn, err := auth.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.LoginResponse{
		User:        user.ToPublic(),
		Message:     "Login successful",
		Verified:    true,
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	}, nil
}

// ==============================================
// VERIFY (short code)
// ==============================================

func (s *AuthService) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// An unknown account must be indistinguishable from a wrong code.
			return nil, models.ErrInvalidVerification
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.verifier.VerifyCode(ctx, user, req.OTP); err != nil {
		return s.mapVerifyError(user, err)
	}
	user.IsVerified = true

	s.sendSuccessEmail(ctx, user)

	return &dto.VerifyResponse{
		User:     user.ToPublic(),
		Message:  "Email verified successfully! You can now log in.",
		Verified: true,
	}, nil
}

// ==============================================
// VERIFY (legacy link token)
// ==============================================

// VerifyLegacy handles the older value-keyed lookup flow. It shares the
// verifier's terminal logic with the short code path but the call sites
// stay separate, the two kinds never mix.
func (s *AuthService) VerifyLegacy(ctx context.Context, tokenValue string) (*dto.VerifyResponse, error) {
	user, err := s.verifier.VerifyLegacy(ctx, tokenValue)
	if err != nil {
		return s.mapVerifyError(nil, err)
	}

	s.sendSuccessEmail(ctx, user)

	return &dto.VerifyResponse{
		User:     user.ToPublic(),
		Message:  "Email verified successfully! You can now log in.",
		Verified: true,
	}, nil
}

// ==============================================
// CURRENT USER
// ==============================================

// CurrentUser loads the profile of an already-authenticated account. The
// caller is responsible for having validated the access token.
func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*dto.MeResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.MeResponse{User: user.ToPublic()}, nil
}

// ==============================================
// RESEND VERIFICATION
// ==============================================

func (s *AuthService) ResendVerification(ctx context.Context, req dto.ResendVerificationRequest) (*dto.ResendVerificationResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return &dto.ResendVerificationResponse{
			Email:           email,
			Message:         "Email is already verified",
			AlreadyVerified: true,
		}, nil
	}

	emailSent := s.issueAndSend(ctx, user)

	message := "Verification email sent successfully"
	if !emailSent {
		message = "Verification email could not be sent (check server configuration)"
	}

	return &dto.ResendVerificationResponse{
		Email:                 email,
		Message:               message,
		VerificationEmailSent: emailSent,
	}, nil
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// issueAndSend mints a fresh short code and dispatches it. Returns whether
// the email actually went out; issuance or delivery failure is logged and
// reported, never propagated.
func (s *AuthService) issueAndSend(ctx context.Context, user *models.User) bool {
	token, err := s.issuer.Issue(ctx, user, models.TokenKindShortCode)
	if err != nil {
		s.logger.Error("failed to issue verification token", "user_id", user.ID, "error", err)
		return false
	}

	if err := s.email.SendVerification(ctx, user, token); err != nil {
		s.logger.Warn("failed to send verification email", "user_id", user.ID, "error", err)
		return false
	}

	return true
}

// mapVerifyError collapses the verifier's failure kinds into the uniform
// client-facing outcome. Already-verified surfaces as a success-adjacent
// response rather than an error.
func (s *AuthService) mapVerifyError(user *models.User, err error) (*dto.VerifyResponse, error) {
	if errors.Is(err, models.ErrAlreadyVerified) {
		resp := &dto.VerifyResponse{
			Message:         "Email already verified, please log in",
			Verified:        true,
			AlreadyVerified: true,
		}
		if user != nil {
			resp.User = user.ToPublic()
		}
		return resp, nil
	}

	if models.IsVerificationFailure(err) {
		s.logger.Info("verification failed", "reason", err)
		return nil, models.ErrInvalidVerification
	}

	return nil, err
}

func (s *AuthService) sendSuccessEmail(ctx context.Context, user *models.User) {
	if err := s.email.SendVerificationSuccess(ctx, user); err != nil {
		s.logger.Warn("failed to send verification success email", "user_id", user.ID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
