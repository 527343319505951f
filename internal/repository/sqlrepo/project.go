// Package sqlrepo implements the entity repositories once, against the
// dialect-neutral repositories.Store.
package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
)

const projectColumns = `p.id, p.client_id, p.title, p.description, p.category, p.budget,
		p.budget_min, p.budget_max, p.duration_days, p.status, p.created_at, p.updated_at`

// ProjectRepository implements repositories.ProjectRepository
type ProjectRepository struct {
	store repositories.Store
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(store repositories.Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (client_id, title, description, category, budget,
			budget_min, budget_max, duration_days, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.store.QueryOne(ctx, query,
		project.ClientID,
		project.Title,
		project.Description,
		project.Category,
		project.Budget,
		project.BudgetMin,
		project.BudgetMax,
		project.DurationDays,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = ?`

	project, err := scanProject(r.store.QueryOne(ctx, query, id))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return project, nil
}

// GetView retrieves a project with its client's profile, skills and
// proposal count
func (r *ProjectRepository) GetView(ctx context.Context, id int64) (*models.ProjectView, error) {
	query := `
		SELECT ` + projectColumns + `, u.full_name, u.avatar_url,
			(SELECT COUNT(*) FROM proposals pr WHERE pr.project_id = p.id)
		FROM projects p
		JOIN users u ON u.id = p.client_id
		WHERE p.id = ?
	`

	var view models.ProjectView
	p := &view.Project
	err := r.store.QueryOne(ctx, query, id).Scan(
		&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Category, &p.Budget,
		&p.BudgetMin, &p.BudgetMax, &p.DurationDays, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&view.ClientName,
		&view.ClientAvatar,
		&view.ProposalsCount,
	)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project view: %w", err)
	}

	skills, err := listSkillNames(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	view.Skills = skills

	return &view, nil
}

// ListByClient retrieves a client's projects, newest first
func (r *ProjectRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.client_id = ? ORDER BY p.created_at DESC, p.id DESC`
	return r.list(ctx, query, clientID)
}

// Search builds a conjunctive filter incrementally. Each present criterion
// adds one clause and its arguments. Results carry the client's profile.
func (r *ProjectRepository) Search(ctx context.Context, criteria models.ProjectSearchCriteria) ([]models.ProjectListing, error) {
	var (
		where []string
		args  []any
	)

	if q := strings.TrimSpace(criteria.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(p.title) LIKE ? OR LOWER(p.description) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if criteria.Status != "" {
		where = append(where, "p.status = ?")
		args = append(args, criteria.Status)
	}
	if criteria.MinBudget != nil {
		where = append(where, "p.budget >= ?")
		args = append(args, *criteria.MinBudget)
	}
	if criteria.MaxBudget != nil {
		where = append(where, "p.budget <= ?")
		args = append(args, *criteria.MaxBudget)
	}

	query := `SELECT ` + projectColumns + `, u.full_name, u.avatar_url
		FROM projects p
		JOIN users u ON u.id = p.client_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch criteria.SortBy {
	case models.ProjectSortBudget:
		query += " ORDER BY p.budget DESC, p.id DESC"
	default:
		query += " ORDER BY p.created_at DESC, p.id DESC"
	}

	rows, err := r.store.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	defer rows.Close()

	listings := []models.ProjectListing{}
	for rows.Next() {
		var l models.ProjectListing
		p := &l.Project
		if err := rows.Scan(
			&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Category, &p.Budget,
			&p.BudgetMin, &p.BudgetMax, &p.DurationDays, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&l.ClientName,
			&l.ClientAvatar,
		); err != nil {
			return nil, fmt.Errorf("scan project listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project listings: %w", err)
	}

	return listings, nil
}

// Update writes the non-nil patch columns and bumps updated_at
func (r *ProjectRepository) Update(ctx context.Context, id int64, patch *repositories.ProjectPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Budget != nil {
		add("budget", *patch.Budget)
	}
	if patch.BudgetMin != nil {
		add("budget_min", *patch.BudgetMin)
	}
	if patch.BudgetMax != nil {
		add("budget_max", *patch.BudgetMax)
	}
	if patch.DurationDays != nil {
		add("duration_days", *patch.DurationDays)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := r.store.Execute(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetStatus moves a project to status
func (r *ProjectRepository) SetStatus(ctx context.Context, id int64, status models.ProjectStatus) error {
	query := `UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.store.Execute(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := r.store.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

func scanProject(row repositories.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.Budget,
		&p.BudgetMin,
		&p.BudgetMax,
		&p.DurationDays,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
