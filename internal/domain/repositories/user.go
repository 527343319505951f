package repositories

import (
	"context"

	"marketplace/internal/domain/models"
)

// UserRepository defines data access operations for accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
