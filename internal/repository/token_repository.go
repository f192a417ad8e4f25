package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/esticore/auth-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ==============================================
// TOKEN REPOSITORY
// ==============================================

// TokenRepository persists verification tokens. It guarantees that at most
// one PENDING token exists per user: Put supersedes and inserts inside a
// single transaction, and a partial unique index on
// (user_id) WHERE status = 'pending' backs the invariant in the schema.
type TokenRepository struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// Put inserts a new token after marking any currently pending token for the
// same user as superseded. Both steps commit atomically, so there is no
// window where two pending tokens coexist for one owner.
func (r *TokenRepository) Put(ctx context.Context, token *models.VerificationToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE verification_tokens
		SET status = $1
		WHERE user_id = $2 AND status = $3
	`, models.TokenStatusSuperseded, token.UserID, models.TokenStatusPending)
	if err != nil {
		return fmt.Errorf("failed to supersede pending tokens: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO verification_tokens (user_id, kind, value, status, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, token.UserID, token.Kind, token.Value, models.TokenStatusPending,
		token.IssuedAt, token.ExpiresAt,
	).Scan(&token.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return fmt.Errorf("failed to insert token: %w", models.ErrUserNotFound)
		}
		return fmt.Errorf("failed to insert token: %w", err)
	}

	token.Status = models.TokenStatusPending

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit token insert: %w", err)
	}

	return nil
}

// GetPending returns the current pending token for a user.
func (r *TokenRepository) GetPending(ctx context.Context, userID int) (*models.VerificationToken, error) {
	query := `
		SELECT id, user_id, kind, value, status, issued_at, expires_at, consumed_at
		FROM verification_tokens
		WHERE user_id = $1 AND status = $2
	`

	var token models.VerificationToken
	err := r.db.QueryRow(ctx, query, userID, models.TokenStatusPending).Scan(
		&token.ID,
		&token.UserID,
		&token.Kind,
		&token.Value,
		&token.Status,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.ConsumedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoPendingToken
		}
		return nil, fmt.Errorf("failed to get pending token: %w", err)
	}

	return &token, nil
}

// GetPendingByValue looks a pending legacy link token up by its value. The
// older single-value flow only ever issued legacy_link tokens, so the kind
// is pinned here and short codes are never reachable through this path.
func (r *TokenRepository) GetPendingByValue(ctx context.Context, value string) (*models.VerificationToken, error) {
	query := `
		SELECT id, user_id, kind, value, status, issued_at, expires_at, consumed_at
		FROM verification_tokens
		WHERE value = $1 AND kind = $2 AND status = $3
	`

	var token models.VerificationToken
	err := r.db.QueryRow(ctx, query, value, models.TokenKindLegacyLink, models.TokenStatusPending).Scan(
		&token.ID,
		&token.UserID,
		&token.Kind,
		&token.Value,
		&token.Status,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.ConsumedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoPendingToken
		}
		return nil, fmt.Errorf("failed to get token by value: %w", err)
	}

	return &token, nil
}

// MarkConsumed transitions a token from pending to consumed. The status
// precondition makes this a compare-and-set: of two concurrent callers
// presenting the same code, exactly one gets the row, the other gets
// ErrTokenConflict.
func (r *TokenRepository) MarkConsumed(ctx context.Context, tokenID int64) error {
	query := `
		UPDATE verification_tokens
		SET status = $1, consumed_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.db.Exec(ctx, query, models.TokenStatusConsumed, tokenID, models.TokenStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark token consumed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrTokenConflict
	}

	return nil
}
