package repositories

import (
	"context"

	"marketplace/internal/domain/models"
)

// ProjectPatch carries the columns an update writes. Nil fields are left
// untouched.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Category     *string
	Budget       *float64
	BudgetMin    *float64
	BudgetMax    *float64
	DurationDays *int
	Status       *models.ProjectStatus
}

// IsEmpty reports whether the patch writes no columns.
func (p *ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Budget == nil && p.BudgetMin == nil && p.BudgetMax == nil &&
		p.DurationDays == nil && p.Status == nil
}

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts the project and fills in its generated ID
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID regardless of owner
	GetByID(ctx context.Context, id int64) (*models.Project, error)

	// GetView retrieves a project joined with its client's profile, skills
	// and proposal count
	GetView(ctx context.Context, id int64) (*models.ProjectView, error)

	// ListByClient retrieves a client's projects, newest first
	ListByClient(ctx context.Context, clientID int64) ([]models.Project, error)

	// Search runs a conjunctive filter over all projects
	Search(ctx context.Context, criteria models.ProjectSearchCriteria) ([]models.ProjectListing, error)

	// Update writes the non-nil patch columns and bumps updated_at
	Update(ctx context.Context, id int64, patch *ProjectPatch) error

	// SetStatus moves a project to status without touching other columns
	SetStatus(ctx context.Context, id int64, status models.ProjectStatus) error
}

// SkillRepository manages the skill dictionary and project links
type SkillRepository interface {
	// Upsert returns the id of the named skill, creating it if needed
	Upsert(ctx context.Context, name string) (int64, error)

	// ReplaceProjectSkills clears all links of a project and links skillIDs
	ReplaceProjectSkills(ctx context.Context, projectID int64, skillIDs []int64) error

	// ListProjectSkills returns the skill names linked to a project
	ListProjectSkills(ctx context.Context, projectID int64) ([]string, error)
}
