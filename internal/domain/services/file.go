package services

import (
	"context"
	"io"

	"marketplace/internal/domain/models"
)

// UploadFileRequest carries an upload that has not been accepted yet
type UploadFileRequest struct {
	OriginalName string
	ContentType  string
	Size         int64
	EntityType   models.EntityType
	EntityID     int64
	Content      io.Reader
}

// ReconcileResult reports the outcome of a pending-delete sweep
type ReconcileResult struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// FileService defines the file access policy and its operations
type FileService interface {
	UploadFile(ctx context.Context, principal models.Principal, req *UploadFileRequest) (*models.File, error)

	// GetFile reports files the principal may not view as domain.ErrNotFound
	GetFile(ctx context.Context, id int64, principal models.Principal) (*models.File, error)

	ListEntityFiles(ctx context.Context, entityType models.EntityType, entityID int64) ([]models.File, error)

	// DeleteFile removes the blob and the metadata row. Viewers who may not
	// delete get domain.ErrForbidden.
	DeleteFile(ctx context.Context, id int64, principal models.Principal) error

	// ReconcilePendingDeletes finishes deletions whose blob removal failed
	ReconcilePendingDeletes(ctx context.Context) (ReconcileResult, error)
}

// BlobMeta describes a blob being stored
type BlobMeta struct {
	ContentType string
	Size        int64
}

// BlobStore persists uploaded file content. Paths returned by Store are
// opaque to callers and only passed back to Remove and Exists.
type BlobStore interface {
	Store(ctx context.Context, name string, r io.Reader, meta BlobMeta) (string, error)

	// Remove deletes a blob; removing a missing blob is not an error
	Remove(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)
}
