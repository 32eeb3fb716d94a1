package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"authservice/internal/common"
	"authservice/internal/dbx"
	"authservice/internal/server/auth"
	"authservice/internal/server/config"
	"authservice/internal/server/models"
	"authservice/internal/server/repositories/repomanager"

	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ClientMeta is optional per-request client metadata recorded with issued
// refresh tokens.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// dummyDigest is a bcrypt digest compared against when login hits an unknown
// email, so that path costs about the same as a real mismatch and does not
// leak account existence through timing.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService provides the authentication flows:
//   - Register: create an account and mint the first token pair
//   - Login: verify credentials and mint tokens
//   - Refresh: rotate the stored refresh token and mint a new pair
type AuthService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	users                *UserService
	accessTokenSecret    []byte
	refreshTokenSecret   []byte
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration
}

// NewAuthService constructs an AuthService using repositories, the user
// service, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, users *UserService, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                   db,
		repomanager:          m,
		users:                users,
		accessTokenSecret:    []byte(cfg.AccessTokenSecret),
		refreshTokenSecret:   []byte(cfg.RefreshTokenSecret),
		accessTokenValidity:  cfg.AccessTokenValidity,
		refreshTokenValidity: cfg.RefreshTokenValidity,
	}
}

// Register creates a new account and returns its first token pair.
// A duplicate email yields common.ErrEmailExists.
func (s *AuthService) Register(ctx context.Context, email, password, name string, meta ClientMeta) (*TokenPair, error) {
	user, err := s.users.Create(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	return s.signTokens(ctx, user, meta)
}

// Login verifies the email/password pair and, on success, returns a new
// TokenPair. Unknown email and wrong password are indistinguishable to the
// caller: both yield common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so a miss costs as much as a mismatch
			_ = auth.CheckPassword(password, dummyDigest)
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if err := auth.CheckPassword(password, user.Password); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.signTokens(ctx, user, meta)
}

// Refresh consumes the presented refresh token and, when it was valid and
// unexpired, mints a new pair for the user. A missing, already-consumed, or
// expired token yields common.ErrInvalidRefreshToken. A user deleted after
// issuance yields common.ErrorNotFound.
func (s *AuthService) Refresh(ctx context.Context, userID, rawToken string, meta ClientMeta) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Consume(ctx, userID, auth.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("error consuming refresh token: %w", err)
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrInvalidRefreshToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return s.signTokens(ctx, user, meta)
}

// signTokens is the one path that mints tokens: access and refresh JWTs are
// signed with their own secrets and lifetimes, then the refresh token's hash
// replaces any previously stored rows for the user. Delete and insert run in
// one transaction so the user is never left without a valid refresh token.
func (s *AuthService) signTokens(ctx context.Context, user *models.User, meta ClientMeta) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.accessTokenSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateToken(user.ID, user.Email, s.refreshTokenSecret, s.refreshTokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	row := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: auth.HashToken(refresh),
		ExpiresAt: time.Now().Add(s.refreshTokenValidity),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	// one active refresh token per user
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.DeleteAllForUser(ctx, user.ID); err != nil {
			return err
		}
		return repoTx.Create(ctx, row)
	}); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
