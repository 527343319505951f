package sqlrepo

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
)

const fileColumns = `id, uploader_id, filename, original_name, file_path, file_size,
		mime_type, entity_type, entity_id, status, created_at`

// FileRepository implements repositories.FileRepository
type FileRepository struct {
	store repositories.Store
}

// NewFileRepository creates a new file metadata repository
func NewFileRepository(store repositories.Store) *FileRepository {
	return &FileRepository{store: store}
}

// Create records file metadata. An empty Status is stored as active.
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	if file.Status == "" {
		file.Status = models.FileStatusActive
	}

	query := `
		INSERT INTO files (uploader_id, filename, original_name, file_path, file_size,
			mime_type, entity_type, entity_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.store.QueryOne(ctx, query,
		file.UploaderID,
		file.Filename,
		file.OriginalName,
		file.FilePath,
		file.FileSize,
		file.MimeType,
		file.EntityType,
		file.EntityID,
		file.Status,
		file.CreatedAt,
	).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file in any status
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`

	file, err := scanFile(r.store.QueryOne(ctx, query, id))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// ListByEntity retrieves active files attached to an entity, newest first
func (r *FileRepository) ListByEntity(ctx context.Context, entityType models.EntityType, entityID int64) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		WHERE entity_type = ? AND entity_id = ? AND status = ?
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, entityType, entityID, models.FileStatusActive)
}

// ListPendingDelete retrieves files whose deletion has not completed
func (r *FileRepository) ListPendingDelete(ctx context.Context) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE status = ? ORDER BY id`
	return r.list(ctx, query, models.FileStatusPendingDelete)
}

// SetStatus changes the lifecycle status of a file row
func (r *FileRepository) SetStatus(ctx context.Context, id int64, status models.FileStatus) error {
	result, err := r.store.Execute(ctx, `UPDATE files SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set file status: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a file row
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.store.Execute(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *FileRepository) list(ctx context.Context, query string, args ...any) ([]models.File, error) {
	rows, err := r.store.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

func scanFile(row repositories.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID,
		&f.UploaderID,
		&f.Filename,
		&f.OriginalName,
		&f.FilePath,
		&f.FileSize,
		&f.MimeType,
		&f.EntityType,
		&f.EntityID,
		&f.Status,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
