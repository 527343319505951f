package repositories

import (
	"context"

	"marketplace/internal/domain/models"
)

// FileRepository defines data access operations for file metadata
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file in any status
	GetByID(ctx context.Context, id int64) (*models.File, error)

	// ListByEntity retrieves active files attached to an entity
	ListByEntity(ctx context.Context, entityType models.EntityType, entityID int64) ([]models.File, error)

	// ListPendingDelete retrieves files whose deletion has not completed
	ListPendingDelete(ctx context.Context) ([]models.File, error)

	SetStatus(ctx context.Context, id int64, status models.FileStatus) error
	Delete(ctx context.Context, id int64) error
}
