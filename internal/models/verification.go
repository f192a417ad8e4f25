package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ==============================================
// VERIFICATION TOKEN MODEL
// ==============================================

// Token kinds. Short codes are the current scheme; legacy link tokens
// predate the cutover and stay verifiable for as long as they are pending.
const (
	TokenKindShortCode  = "short_code"  // 6-digit numeric OTP
	TokenKindLegacyLink = "legacy_link" // opaque high-entropy string
)

// Token statuses. A token that outlives its expires_at is treated as
// expired lazily at verification time, there is no stored transition.
const (
	TokenStatusPending    = "pending"
	TokenStatusConsumed   = "consumed"
	TokenStatusSuperseded = "superseded"
)

type VerificationToken struct {
	ID         int64            `db:"id"`
	UserID     int              `db:"user_id"`
	Kind       string           `db:"kind"`
	Value      string           `db:"value"` // the presented secret
	Status     string           `db:"status"`
	IssuedAt   time.Time        `db:"issued_at"`
	ExpiresAt  time.Time        `db:"expires_at"`
	ConsumedAt pgtype.Timestamp `db:"consumed_at"`
}

// IsExpiredAt reports whether the token is past its window at the given instant.
func (t *VerificationToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *VerificationToken) IsPending() bool {
	return t.Status == TokenStatusPending
}

// ==============================================
// TOKEN CONFIGURATION DEFAULTS
// ==============================================
const (
	DefaultOTPLength             = 6  // digits per short code
	DefaultOTPExpireMinutes      = 5  // short code window
	DefaultLegacyLinkExpireHours = 24 // legacy link window (pre-cutover tokens)
)
