package models

import (
	"database/sql"
	"time"
)

// ==============================================
// USER MODEL (Database mapping)
// ==============================================

// AuthOrigin values. Federated users come in through an external OAuth
// provider and are verified on creation.
const (
	AuthOriginLocal     = "local"
	AuthOriginFederated = "federated"
)

// User represents an account in the identity subsystem
type User struct {
	ID           int            `db:"id"`
	FirstName    string         `db:"firstname"`
	LastName     string         `db:"lastname"`
	Email        string         `db:"email"` // unique, stored lowercased
	PasswordHash string         `db:"password_hash"`
	AuthOrigin   string         `db:"auth_origin"`
	GoogleID     sql.NullString `db:"google_id"` // set for federated users only
	IsVerified   bool           `db:"is_verified"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// PublicUser is the safe version to return to clients (no sensitive fields)
type PublicUser struct {
	ID         int       `json:"id"`
	FirstName  string    `json:"firstname"`
	LastName   string    `json:"lastname"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToPublic converts User to PublicUser (removes sensitive fields)
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// IsFederated checks whether the account came from an OAuth provider.
// Federated accounts never enter the verification token lifecycle.
func (u *User) IsFederated() bool {
	return u.AuthOrigin == AuthOriginFederated
}
