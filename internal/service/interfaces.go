package service

import (
	"context"

	"github.com/esticore/auth-api/internal/models"
)

// ==============================================
// STORE INTERFACES (implemented by repository, mocked in tests)
// ==============================================

// TokenStore is the single shared mutable resource of the verification
// core. Put must supersede-then-insert atomically and MarkConsumed must be
// a compare-and-set on the pending status; no other synchronization is
// required on top of it.
type TokenStore interface {
	Put(ctx context.Context, token *models.VerificationToken) error
	GetPending(ctx context.Context, userID int) (*models.VerificationToken, error)
	GetPendingByValue(ctx context.Context, value string) (*models.VerificationToken, error)
	MarkConsumed(ctx context.Context, tokenID int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, userID int) error
}

// EmailSender delivers verification messages. Delivery failure is never
// fatal to the caller, it is surfaced as verification_email_sent: false.
type EmailSender interface {
	SendVerification(ctx context.Context, user *models.User, token *models.VerificationToken) error
	SendVerificationSuccess(ctx context.Context, user *models.User) error
}
