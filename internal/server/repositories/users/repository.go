// Package users declares the persistence contract for account records.
package users

import (
	"context"

	"authservice/internal/server/models"
)

// Repository defines CRUD operations for account records.
type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrEmailExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by email, common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks up a user by id, common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// List returns one page of users ordered by creation time (newest first)
	// together with the total row count.
	List(ctx context.Context, page, limit int) ([]*models.User, int64, error)

	// Update persists the mutable fields of user and returns the stored row.
	// common.ErrorNotFound when the id does not exist.
	Update(ctx context.Context, user *models.User) (*models.User, error)

	// Delete removes a user by id. Deleting a non-existent id is not an error.
	Delete(ctx context.Context, id string) error
}
