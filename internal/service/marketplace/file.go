package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/domain/services"
)

// fileService implements the FileService interface
type fileService struct {
	fileRepo   repositories.FileRepository
	authorizer services.EntityAuthorizer
	blobs      services.BlobStore
	policy     *config.UploadPolicy
	now        func() time.Time
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	authorizer services.EntityAuthorizer,
	blobs services.BlobStore,
	policy *config.UploadPolicy,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		authorizer: authorizer,
		blobs:      blobs,
		policy:     policy,
		now:        time.Now,
		logger:     logger,
	}
}

// UploadFile validates, stores the blob and records its metadata. When the
// metadata insert fails the stored blob is removed again.
func (s *fileService) UploadFile(ctx context.Context, principal models.Principal, req *services.UploadFileRequest) (*models.File, error) {
	if err := ValidateUpload(s.policy, req.OriginalName, req.ContentType, req.EntityType, req.EntityID, req.Size); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	name := StoredName(now, req.OriginalName)

	blobPath, err := s.blobs.Store(ctx, name, req.Content, services.BlobMeta{
		ContentType: req.ContentType,
		Size:        req.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	file := &models.File{
		UploaderID:   principal.ID,
		Filename:     name,
		OriginalName: req.OriginalName,
		FilePath:     blobPath,
		FileSize:     req.Size,
		MimeType:     req.ContentType,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		Status:       models.FileStatusActive,
		CreatedAt:    now,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		if rmErr := s.blobs.Remove(ctx, blobPath); rmErr != nil {
			s.logger.Error("failed to remove orphaned blob",
				"path", blobPath,
				"error", rmErr,
			)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"uploader_id", principal.ID,
		"entity_type", file.EntityType,
		"entity_id", file.EntityID,
		"size", file.FileSize,
	)

	return file, nil
}

// GetFile returns the file if the principal may view it
func (s *fileService) GetFile(ctx context.Context, id int64, principal models.Principal) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if file.Status != models.FileStatusActive {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}

	allowed, err := s.canView(ctx, principal, file)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}

	return file, nil
}

// ListEntityFiles lists the active files attached to an entity
func (s *fileService) ListEntityFiles(ctx context.Context, entityType models.EntityType, entityID int64) ([]models.File, error) {
	if !entityType.Valid() {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("invalid entity type %q", entityType),
			Field:   "entity_type",
		}
	}
	return s.fileRepo.ListByEntity(ctx, entityType, entityID)
}

// DeleteFile hides the row, removes the blob, then deletes the row. A
// failure after the first step leaves the row pending_delete so that a
// repeated call or the reconciler can finish the job.
func (s *fileService) DeleteFile(ctx context.Context, id int64, principal models.Principal) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !canDelete(principal, file) {
		if file.Status != models.FileStatusActive {
			return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		viewer, err := s.canView(ctx, principal, file)
		if err != nil {
			return err
		}
		if viewer {
			return fmt.Errorf("only the uploader can delete file %d: %w", id, domain.ErrForbidden)
		}
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}

	if file.Status == models.FileStatusActive {
		if err := s.fileRepo.SetStatus(ctx, id, models.FileStatusPendingDelete); err != nil {
			return err
		}
	}

	if err := s.finishDelete(ctx, file); err != nil {
		return err
	}

	s.logger.Info("file deleted",
		"id", id,
		"deleted_by", principal.ID,
	)

	return nil
}

// ReconcilePendingDeletes retries the blob and row removal of every file
// left in pending_delete
func (s *fileService) ReconcilePendingDeletes(ctx context.Context) (services.ReconcileResult, error) {
	var result services.ReconcileResult

	files, err := s.fileRepo.ListPendingDelete(ctx)
	if err != nil {
		return result, err
	}

	for i := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.finishDelete(ctx, &files[i]); err != nil {
			result.Failed++
			s.logger.Warn("pending file deletion still failing",
				"id", files[i].ID,
				"error", err,
			)
			continue
		}
		result.Completed++
	}

	if result.Completed > 0 || result.Failed > 0 {
		s.logger.Info("pending file deletions reconciled",
			"completed", result.Completed,
			"failed", result.Failed,
		)
	}

	return result, nil
}

// finishDelete removes the blob if it is still there, then the row
func (s *fileService) finishDelete(ctx context.Context, file *models.File) error {
	exists, err := s.blobs.Exists(ctx, file.FilePath)
	if err != nil {
		return fmt.Errorf("check blob for file %d: %w", file.ID, err)
	}
	if exists {
		if err := s.blobs.Remove(ctx, file.FilePath); err != nil {
			return fmt.Errorf("remove blob for file %d: %w", file.ID, err)
		}
	}

	if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
		// a concurrent delete already finished the job
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// canView: uploader and admins always; otherwise the owning entity decides
func (s *fileService) canView(ctx context.Context, principal models.Principal, file *models.File) (bool, error) {
	if canDelete(principal, file) {
		return true, nil
	}
	return s.authorizer.CanViewEntity(ctx, principal, file.EntityType, file.EntityID)
}

func canDelete(principal models.Principal, file *models.File) bool {
	return principal.Owns(file.UploaderID) || principal.IsAdmin()
}
