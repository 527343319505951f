package marketplace

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ValidateUpload runs the acceptance checks in a fixed order: extension,
// content type, entity type, size. The first failure is returned as a
// *domain.ValidationError whose Field names the check.
func ValidateUpload(policy *config.UploadPolicy, originalName, contentType string, entityType models.EntityType, entityID, size int64) error {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !policy.AllowsExtension(ext) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("file extension %q is not allowed", ext),
			Field:   "extension",
		}
	}

	if !policy.AllowsContentType(contentType) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("content type %q is not allowed", contentType),
			Field:   "content_type",
		}
	}

	if !entityType.Valid() {
		return &domain.ValidationError{
			Message: fmt.Sprintf("invalid entity type %q", entityType),
			Field:   "entity_type",
		}
	}
	if entityID <= 0 {
		return &domain.ValidationError{
			Message: "entity_id must be a positive integer",
			Field:   "entity_id",
		}
	}

	if size > int64(policy.MaxSize) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("file exceeds the %d byte limit", policy.MaxSize),
			Field:   "size",
		}
	}
	if size <= 0 {
		return &domain.ValidationError{
			Message: "file is empty",
			Field:   "size",
		}
	}

	return nil
}

// SanitizeFilename reduces an uploaded name to its last path element with
// every character outside [A-Za-z0-9._-] replaced by '_'. Leading dots are
// removed so the result is never hidden, "." or "..".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")

	if name == "" {
		return "file"
	}
	return name
}

// StoredName is the blob name for an upload:
// "<unix-millis>-<12 hex chars of a random UUID>-<sanitized>". The random
// segment keeps same-name uploads within one millisecond apart.
func StoredName(now time.Time, originalName string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), id[:12], SanitizeFilename(originalName))
}
