package models

import "time"

// EntityType is the closed set of entities a file can be attached to.
type EntityType string

const (
	EntityProject  EntityType = "project"
	EntityProposal EntityType = "proposal"
	EntityGig      EntityType = "gig"
	EntityOrder    EntityType = "order"
)

// EntityTypes lists every attachable entity type.
var EntityTypes = []EntityType{EntityProject, EntityProposal, EntityGig, EntityOrder}

func (t EntityType) Valid() bool {
	switch t {
	case EntityProject, EntityProposal, EntityGig, EntityOrder:
		return true
	}
	return false
}

type FileStatus string

const (
	FileStatusActive FileStatus = "active"
	// FileStatusPendingDelete marks a row whose blob removal has not completed yet.
	FileStatusPendingDelete FileStatus = "pending_delete"
)

type File struct {
	ID           int64      `json:"id" db:"id"`
	UploaderID   int64      `json:"uploader_id" db:"uploader_id"`
	Filename     string     `json:"filename" db:"filename"`
	OriginalName string     `json:"original_name" db:"original_name"`
	FilePath     string     `json:"file_path" db:"file_path"`
	FileSize     int64      `json:"file_size" db:"file_size"`
	MimeType     string     `json:"mime_type" db:"mime_type"`
	EntityType   EntityType `json:"entity_type" db:"entity_type"`
	EntityID     int64      `json:"entity_id" db:"entity_id"`
	Status       FileStatus `json:"-" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
