package repositories

import (
	"context"

	"marketplace/internal/domain/models"
)

// OwnershipRepository resolves the owner columns of entities this service
// does not manage itself. Missing rows return domain.ErrNotFound.
type OwnershipRepository interface {
	GetGig(ctx context.Context, id int64) (*models.Gig, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
}
