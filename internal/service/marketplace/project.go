// Package marketplace holds the access policies for projects, proposals and
// files.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/domain/services"
	"marketplace/internal/sanitizer"
)

// projectService implements the ProjectService interface
type projectService struct {
	txManager    repositories.TransactionManager
	projectRepo  repositories.ProjectRepository
	skillRepo    repositories.SkillRepository
	proposalRepo repositories.ProposalRepository
	text         *sanitizer.TextSanitizer
	logger       *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	txManager repositories.TransactionManager,
	projectRepo repositories.ProjectRepository,
	skillRepo repositories.SkillRepository,
	proposalRepo repositories.ProposalRepository,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		txManager:    txManager,
		projectRepo:  projectRepo,
		skillRepo:    skillRepo,
		proposalRepo: proposalRepo,
		text:         sanitizer.NewTextSanitizer(),
		logger:       logger,
	}
}

// GetProject returns the project if principal may see it. Freelancers may
// browse every project; owners and admins see their projects; anyone else
// needs a proposal on it. Everything else looks like a missing project.
func (s *projectService) GetProject(ctx context.Context, id int64, principal models.Principal) (*models.ProjectView, error) {
	view, err := s.projectRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}

	if principal.IsFreelancer() {
		submitted, err := s.proposalRepo.Exists(ctx, id, principal.ID)
		if err != nil {
			return nil, err
		}
		view.HasSubmittedProposal = submitted
		return view, nil
	}

	if principal.Owns(view.ClientID) || principal.IsAdmin() {
		return view, nil
	}

	hasProposal, err := s.proposalRepo.Exists(ctx, id, principal.ID)
	if err != nil {
		return nil, err
	}
	if !hasProposal {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}

	return view, nil
}

// CreateProject creates an open project and links its skills in one transaction
func (s *projectService) CreateProject(ctx context.Context, principal models.Principal, req *services.CreateProjectRequest) (*models.ProjectView, error) {
	if !principal.IsClient() {
		return nil, fmt.Errorf("only clients can post projects: %w", domain.ErrForbidden)
	}

	req.Title = s.text.Clean(req.Title)
	req.Description = s.text.Clean(req.Description)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultProjectCategory
	}

	now := time.Now().UTC()
	project := &models.Project{
		ClientID:     principal.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     category,
		Budget:       effectiveBudget(req.BudgetMin, req.BudgetMax),
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		DurationDays: req.DurationDays,
		Status:       models.ProjectStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.projectRepo.Create(ctx, project); err != nil {
			return err
		}
		return s.linkSkills(ctx, project.ID, req.Skills)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"client_id", principal.ID,
		"budget", project.Budget,
	)

	return s.projectRepo.GetView(ctx, project.ID)
}

// UpdateProject applies the present fields of req. Only the owning client
// may update. The row update and the skill relink share one transaction.
func (s *projectService) UpdateProject(ctx context.Context, id int64, principal models.Principal, req *services.UpdateProjectRequest) (*models.ProjectView, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.Owns(project.ClientID) {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrForbidden)
	}

	req.Title = s.text.CleanPtr(req.Title)
	req.Description = s.text.CleanPtr(req.Description)

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.Status != nil && !project.Status.CanTransitionTo(*req.Status) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("cannot change project status from %s to %s", project.Status, *req.Status),
			Field:   "status",
		}
	}

	if err := checkStoredBudgetRange(project, req); err != nil {
		return nil, err
	}

	patch := &repositories.ProjectPatch{
		Title:        req.Title,
		Description:  req.Description,
		Category:     trimmed(req.Category),
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		DurationDays: req.DurationDays,
		Status:       req.Status,
	}
	// budget follows whichever bound was sent, max first
	switch {
	case req.BudgetMax != nil:
		patch.Budget = req.BudgetMax
	case req.BudgetMin != nil:
		patch.Budget = req.BudgetMin
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.projectRepo.Update(ctx, id, patch); err != nil {
			return err
		}
		if req.Skills != nil {
			return s.linkSkills(ctx, id, *req.Skills)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", id,
		"client_id", principal.ID,
		"skills_replaced", req.Skills != nil,
	)

	return s.projectRepo.GetView(ctx, id)
}

// DeleteProject cancels the project. Cancelling twice is not an error.
func (s *projectService) DeleteProject(ctx context.Context, id int64, principal models.Principal) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !principal.Owns(project.ClientID) {
		return fmt.Errorf("project %d: %w", id, domain.ErrForbidden)
	}

	if project.Status == models.ProjectStatusCancelled {
		return nil
	}

	if err := s.projectRepo.SetStatus(ctx, id, models.ProjectStatusCancelled); err != nil {
		return err
	}

	s.logger.Info("project cancelled",
		"id", id,
		"client_id", principal.ID,
	)

	return nil
}

// SearchProjects degrades to an empty list when the query fails
func (s *projectService) SearchProjects(ctx context.Context, criteria models.ProjectSearchCriteria) []models.ProjectListing {
	projects, err := s.projectRepo.Search(ctx, criteria)
	if err != nil {
		s.logger.Error("project search failed",
			"error", err,
			"query", criteria.Query,
		)
		return []models.ProjectListing{}
	}
	return projects
}

// ListMyProjects returns the principal's own projects
func (s *projectService) ListMyProjects(ctx context.Context, principal models.Principal) ([]models.Project, error) {
	return s.projectRepo.ListByClient(ctx, principal.ID)
}

// linkSkills replaces the project's skill set with names, creating unknown
// skills. Names are trimmed and deduplicated; blanks are dropped.
func (s *projectService) linkSkills(ctx context.Context, projectID int64, names []string) error {
	seen := make(map[string]bool, len(names))
	ids := make([]int64, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		id, err := s.skillRepo.Upsert(ctx, name)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	return s.skillRepo.ReplaceProjectSkills(ctx, projectID, ids)
}

// effectiveBudget is the denormalized budget column: max, else min, else 0
func effectiveBudget(budgetMin, budgetMax *float64) float64 {
	switch {
	case budgetMax != nil:
		return *budgetMax
	case budgetMin != nil:
		return *budgetMin
	default:
		return 0
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxProjectTitleLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Description,
			validation.Required,
			validation.Length(1, config.MaxProjectDescriptionLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Category, validation.Length(0, config.MaxCategoryLength)),
		validation.Field(&req.BudgetMin, validation.Min(0.0)),
		validation.Field(&req.BudgetMax, validation.Min(0.0), validation.By(budgetRange(req.BudgetMin))),
		validation.Field(&req.DurationDays, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&req.Skills,
			validation.Length(0, config.MaxSkillsPerProject),
			validation.Each(validation.Length(0, config.MaxSkillNameLength)),
		),
	)
}

// validateUpdateRequest validates the present fields of an update request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxProjectTitleLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Description,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxProjectDescriptionLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Category, validation.Length(0, config.MaxCategoryLength)),
		validation.Field(&req.BudgetMin, validation.Min(0.0)),
		validation.Field(&req.BudgetMax, validation.Min(0.0), validation.By(budgetRange(req.BudgetMin))),
		validation.Field(&req.DurationDays, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&req.Status, validation.By(validProjectStatus)),
		validation.Field(&req.Skills, validation.By(validSkillList)),
	)
}

// notBlank rejects strings that are empty after trimming
func notBlank(value interface{}) error {
	switch v := value.(type) {
	case string:
		if v != "" && strings.TrimSpace(v) == "" {
			return errors.New("cannot be blank")
		}
	case *string:
		if v != nil && strings.TrimSpace(*v) == "" {
			return errors.New("cannot be blank")
		}
	}
	return nil
}

// checkStoredBudgetRange rejects a patch that would leave budget_max below
// budget_min once merged with the stored bounds. Pairs sent together are
// covered by request validation.
func checkStoredBudgetRange(project *models.Project, req *services.UpdateProjectRequest) error {
	if (req.BudgetMin == nil) == (req.BudgetMax == nil) {
		return nil
	}

	budgetMin, budgetMax := project.BudgetMin, project.BudgetMax
	field := "budget_max"
	if req.BudgetMin != nil {
		budgetMin = req.BudgetMin
		field = "budget_min"
	} else {
		budgetMax = req.BudgetMax
	}

	if budgetMin != nil && budgetMax != nil && *budgetMax < *budgetMin {
		return &domain.ValidationError{
			Message: fmt.Sprintf("budget_max %.2f must not be less than budget_min %.2f", *budgetMax, *budgetMin),
			Field:   field,
		}
	}
	return nil
}

// budgetRange rejects a maximum below the minimum when both are given
func budgetRange(budgetMin *float64) validation.RuleFunc {
	return func(value interface{}) error {
		budgetMax, _ := value.(*float64)
		if budgetMin != nil && budgetMax != nil && *budgetMax < *budgetMin {
			return errors.New("must not be less than budget_min")
		}
		return nil
	}
}

func validProjectStatus(value interface{}) error {
	status, _ := value.(*models.ProjectStatus)
	if status != nil && !status.Valid() {
		return fmt.Errorf("unknown status %q", *status)
	}
	return nil
}

func validSkillList(value interface{}) error {
	skills, _ := value.(*[]string)
	if skills == nil {
		return nil
	}
	if len(*skills) > config.MaxSkillsPerProject {
		return fmt.Errorf("at most %d skills are allowed", config.MaxSkillsPerProject)
	}
	for _, name := range *skills {
		if len(name) > config.MaxSkillNameLength {
			return fmt.Errorf("skill names must be at most %d characters", config.MaxSkillNameLength)
		}
	}
	return nil
}
