package service

import (
	"context"
	"fmt"
	"time"

	"github.com/esticore/auth-api/internal/auth"
	"github.com/esticore/auth-api/internal/models"
)

// ==============================================
// TOKEN ISSUER
// ==============================================

// Issuer mints verification tokens. Issuing through the store supersedes
// any previously pending token for the same user, so only the latest code
// is ever verifiable.
type Issuer struct {
	tokens       TokenStore
	otpLength    int
	otpExpiry    time.Duration
	legacyExpiry time.Duration
	now          func() time.Time
}

func NewIssuer(tokens TokenStore, otpLength int, otpExpiry, legacyExpiry time.Duration) *Issuer {
	return &Issuer{
		tokens:       tokens,
		otpLength:    otpLength,
		otpExpiry:    otpExpiry,
		legacyExpiry: legacyExpiry,
		now:          time.Now,
	}
}

// Issue creates and persists a fresh token of the given kind for the user.
func (i *Issuer) Issue(ctx context.Context, user *models.User, kind string) (*models.VerificationToken, error) {
	if user.IsVerified {
		return nil, models.ErrAlreadyVerified
	}

	var value string
	var expiry time.Duration
	var err error

	switch kind {
	case models.TokenKindShortCode:
		value, err = auth.GenerateOTP(i.otpLength)
		expiry = i.otpExpiry
	case models.TokenKindLegacyLink:
		value, err = auth.GenerateLegacyToken()
		expiry = i.legacyExpiry
	default:
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	issuedAt := i.now()
	token := &models.VerificationToken{
		UserID:    user.ID,
		Kind:      kind,
		Value:     value,
		Status:    models.TokenStatusPending,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(expiry),
	}

	if err := i.tokens.Put(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}
