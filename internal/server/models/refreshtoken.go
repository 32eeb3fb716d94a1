package models

import "time"

// RefreshToken is one stored refresh credential. TokenHash is the sha256
// digest of the raw token; the raw value is never persisted. IPAddress and
// UserAgent are optional client metadata captured at issuance.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
	IPAddress string
	UserAgent string
}
