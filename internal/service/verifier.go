package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/esticore/auth-api/internal/models"
)

// ==============================================
// TOKEN VERIFIER
// ==============================================

// Verifier checks presented values against the stored pending token.
// Expiry is evaluated lazily here, expired rows keep their pending status
// in the store. A lost consumption race reports the same mismatch error as
// a wrong code so concurrent callers cannot observe each other.
type Verifier struct {
	tokens TokenStore
	users  UserStore
	now    func() time.Time
}

func NewVerifier(tokens TokenStore, users UserStore) *Verifier {
	return &Verifier{
		tokens: tokens,
		users:  users,
		now:    time.Now,
	}
}

// VerifyCode checks a short code presented for the given account and, on
// success, consumes the token and flips the account's verified flag.
func (v *Verifier) VerifyCode(ctx context.Context, user *models.User, presented string) error {
	if user.IsVerified {
		return models.ErrAlreadyVerified
	}

	token, err := v.tokens.GetPending(ctx, user.ID)
	if err != nil {
		return err
	}

	return v.consume(ctx, token, presented)
}

// VerifyLegacy checks a legacy link token presented through the older
// single-value flow. Lookup is keyed by value, so a wrong value surfaces as
// ErrNoPendingToken rather than a mismatch. Returns the now-verified owner.
func (v *Verifier) VerifyLegacy(ctx context.Context, value string) (*models.User, error) {
	if value == "" {
		return nil, models.ErrNoPendingToken
	}

	token, err := v.tokens.GetPendingByValue(ctx, value)
	if err != nil {
		return nil, err
	}

	user, err := v.users.GetUserByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}

	if user.IsVerified {
		return nil, models.ErrAlreadyVerified
	}

	if err := v.consume(ctx, token, value); err != nil {
		return nil, err
	}

	user.IsVerified = true
	return user, nil
}

// consume runs the shared terminal logic for both token kinds: expiry
// check, constant-time value comparison, compare-and-set consumption, then
// the one-time verified flip on the owner.
func (v *Verifier) consume(ctx context.Context, token *models.VerificationToken, presented string) error {
	if token.IsExpiredAt(v.now()) {
		return models.ErrTokenExpired
	}

	if subtle.ConstantTimeCompare([]byte(token.Value), []byte(presented)) != 1 {
		return models.ErrTokenMismatch
	}

	if err := v.tokens.MarkConsumed(ctx, token.ID); err != nil {
		if errors.Is(err, models.ErrTokenConflict) {
			// A concurrent caller won the race. Indistinguishable from a
			// wrong code on purpose.
			return models.ErrTokenMismatch
		}
		return fmt.Errorf("failed to consume token: %w", err)
	}

	if err := v.users.MarkVerified(ctx, token.UserID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return nil
}
