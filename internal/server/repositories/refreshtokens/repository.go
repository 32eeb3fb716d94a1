// Package refreshtokens declares the server-side repository contract for
// stored refresh tokens.
package refreshtokens

import (
	"context"

	"authservice/internal/server/models"
)

// Repository defines operations for issuing and consuming refresh tokens.
// Tokens are addressed by their one-way hash, never the raw value.
type Repository interface {
	// Create inserts a new refresh-token row.
	Create(ctx context.Context, token *models.RefreshToken) error

	// DeleteAllForUser removes every refresh token held by userID.
	// Deleting zero rows is not an error.
	DeleteAllForUser(ctx context.Context, userID string) error

	// Consume atomically removes the row matching {userID, tokenHash,
	// revoked=false} and returns it. When no such row exists it returns
	// common.ErrorNotFound. Of two concurrent calls with the same token,
	// exactly one receives the row.
	Consume(ctx context.Context, userID, tokenHash string) (*models.RefreshToken, error)
}
