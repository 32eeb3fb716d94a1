package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authservice/internal/common"
	"authservice/internal/dbx"
	"authservice/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt,
		nullable(token.IPAddress), nullable(token.UserAgent))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Consume deletes the matching row in a single statement. Row deletion is
// atomic, so a token presented twice concurrently is returned to exactly one
// caller; the other sees common.ErrorNotFound. Expiry is left to the caller:
// an expired row is still consumed, it is dead either way.
func (r *PostgresRepository) Consume(ctx context.Context, userID, tokenHash string) (*models.RefreshToken, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1 AND token_hash = $2 AND NOT revoked
		RETURNING id, expires_at, created_at
	`
	token := &models.RefreshToken{UserID: userID, TokenHash: tokenHash}
	err := r.db.QueryRowContext(ctx, query, userID, tokenHash).
		Scan(&token.ID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
