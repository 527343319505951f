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

const proposalColumns = `id, project_id, freelancer_id, cover_letter, bid_amount,
		delivery_days, status, created_at, updated_at`

// ProposalRepository implements repositories.ProposalRepository
type ProposalRepository struct {
	store repositories.Store
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(store repositories.Store) *ProposalRepository {
	return &ProposalRepository{store: store}
}

// Create inserts a proposal. A second proposal by the same freelancer on the
// same project is reported as a ConflictError.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals (project_id, freelancer_id, cover_letter, bid_amount,
			delivery_days, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.store.QueryOne(ctx, query,
		proposal.ProjectID,
		proposal.FreelancerID,
		proposal.CoverLetter,
		proposal.BidAmount,
		proposal.DeliveryDays,
		proposal.Status,
		proposal.CreatedAt,
		proposal.UpdatedAt,
	).Scan(&proposal.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			existingID, queryErr := r.getExistingProposalID(ctx, proposal.ProjectID, proposal.FreelancerID)
			if queryErr != nil {
				return fmt.Errorf("proposal for project %d already exists: %w", proposal.ProjectID, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a proposal for project %d already exists", proposal.ProjectID),
				ResourceType: "proposal",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create proposal: %w", err)
	}

	return nil
}

// GetByID retrieves a proposal by ID
func (r *ProposalRepository) GetByID(ctx context.Context, id int64) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = ?`

	proposal, err := scanProposal(r.store.QueryOne(ctx, query, id))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("proposal %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	return proposal, nil
}

// ListByProject retrieves all proposals on a project, newest first
func (r *ProposalRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE project_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, projectID)
}

// ListByFreelancer retrieves a freelancer's proposals, newest first
func (r *ProposalRepository) ListByFreelancer(ctx context.Context, freelancerID int64) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE freelancer_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, freelancerID)
}

// Update writes the non-nil patch columns and bumps updated_at
func (r *ProposalRepository) Update(ctx context.Context, id int64, patch *repositories.ProposalPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.CoverLetter != nil {
		sets = append(sets, "cover_letter = ?")
		args = append(args, *patch.CoverLetter)
	}
	if patch.BidAmount != nil {
		sets = append(sets, "bid_amount = ?")
		args = append(args, *patch.BidAmount)
	}
	if patch.DeliveryDays != nil {
		sets = append(sets, "delivery_days = ?")
		args = append(args, *patch.DeliveryDays)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}

	query := "UPDATE proposals SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := r.store.Execute(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("proposal %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a proposal
func (r *ProposalRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.store.Execute(ctx, `DELETE FROM proposals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("proposal %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Exists reports whether freelancerID has a proposal on projectID
func (r *ProposalRepository) Exists(ctx context.Context, projectID, freelancerID int64) (bool, error) {
	var count int
	err := r.store.QueryOne(ctx,
		`SELECT COUNT(*) FROM proposals WHERE project_id = ? AND freelancer_id = ?`,
		projectID, freelancerID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check proposal exists: %w", err)
	}
	return count > 0, nil
}

// CountByProject returns the number of proposals on a project
func (r *ProposalRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.store.QueryOne(ctx, `SELECT COUNT(*) FROM proposals WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count proposals: %w", err)
	}
	return count, nil
}

func (r *ProposalRepository) getExistingProposalID(ctx context.Context, projectID, freelancerID int64) (int64, error) {
	var id int64
	err := r.store.QueryOne(ctx,
		`SELECT id FROM proposals WHERE project_id = ? AND freelancer_id = ?`,
		projectID, freelancerID,
	).Scan(&id)
	return id, err
}

func (r *ProposalRepository) list(ctx context.Context, query string, args ...any) ([]models.Proposal, error) {
	rows, err := r.store.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, *proposal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}

	return proposals, nil
}

func scanProposal(row repositories.Row) (*models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(
		&p.ID,
		&p.ProjectID,
		&p.FreelancerID,
		&p.CoverLetter,
		&p.BidAmount,
		&p.DeliveryDays,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
