package services

import (
	"context"

	"marketplace/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	BudgetMin    *float64 `json:"budget_min"`
	BudgetMax    *float64 `json:"budget_max"`
	DurationDays *int     `json:"duration_days"`
	Skills       []string `json:"skills"`
}

// UpdateProjectRequest is a partial update. Nil fields are absent and left
// untouched; a non-nil Skills replaces the whole skill set, so a pointer to
// an empty slice clears it.
type UpdateProjectRequest struct {
	Title        *string
	Description  *string
	Category     *string
	BudgetMin    *float64
	BudgetMax    *float64
	DurationDays *int
	Status       *models.ProjectStatus
	Skills       *[]string
}

// ProjectService defines the project access policy and its operations
type ProjectService interface {
	// GetProject returns the project as seen by principal. Projects the
	// principal may not see are reported as domain.ErrNotFound.
	GetProject(ctx context.Context, id int64, principal models.Principal) (*models.ProjectView, error)

	// CreateProject creates an open project owned by a client
	CreateProject(ctx context.Context, principal models.Principal, req *CreateProjectRequest) (*models.ProjectView, error)

	// UpdateProject applies a partial update. Only the owning client may
	// update; admins are not exempt.
	UpdateProject(ctx context.Context, id int64, principal models.Principal, req *UpdateProjectRequest) (*models.ProjectView, error)

	// DeleteProject cancels a project. The row is kept.
	DeleteProject(ctx context.Context, id int64, principal models.Principal) error

	// SearchProjects never fails; a query error yields an empty list
	SearchProjects(ctx context.Context, criteria models.ProjectSearchCriteria) []models.ProjectListing

	// ListMyProjects returns the principal's own projects
	ListMyProjects(ctx context.Context, principal models.Principal) ([]models.Project, error)
}
