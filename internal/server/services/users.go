// Package services contains server-side business logic. This file implements
// UserService, which owns account records: creation with password hashing,
// lookups, paginated listing, updates, and deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authservice/internal/common"
	"authservice/internal/server/auth"
	"authservice/internal/server/config"
	"authservice/internal/server/models"
	"authservice/internal/server/repositories/repomanager"

	"github.com/google/uuid"
)

// UserUpdate carries the mutable account fields; nil means "leave unchanged".
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	IsActive *bool
}

// UserService provides CRUD operations over account records. It hashes
// passwords on the way in and never exposes digests on the way out beyond
// the model's own serialization rules.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bcryptCost  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		bcryptCost:  cfg.BcryptCost,
	}
}

// Create hashes the password and inserts a new active user with the default
// role. A duplicate email yields common.ErrEmailExists; the raw storage error
// is never surfaced.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     "user",
		IsActive: true,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return u, nil
}

// GetByEmail returns the user with the given email, common.ErrorNotFound when
// absent.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

// GetByID returns the user with the given id, common.ErrorNotFound when absent.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// List returns one page of users plus the total count. Page and limit fall
// back to 1 and 10 when out of range.
func (s *UserService) List(ctx context.Context, page, limit int) ([]*models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repomanager.Users(s.db).List(ctx, page, limit)
}

// Update applies the non-nil fields of upd to the stored user. A new password
// is re-hashed before persisting.
func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return nil, common.ErrorInternal
		}
		user.Password = hash
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	return repo.Update(ctx, user)
}

// Delete removes the user by id, common.ErrorNotFound when absent. Refresh
// tokens go with the user via the FK cascade.
func (s *UserService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByID(ctx, id); err != nil {
		return err
	}

	return repo.Delete(ctx, id)
}
