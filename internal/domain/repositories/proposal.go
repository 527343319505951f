package repositories

import (
	"context"

	"marketplace/internal/domain/models"
)

// ProposalPatch carries the columns a proposal update writes.
type ProposalPatch struct {
	CoverLetter  *string
	BidAmount    *float64
	DeliveryDays *int
	Status       *models.ProposalStatus
}

// ProposalRepository defines data access operations for proposals
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id int64) (*models.Proposal, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID int64) ([]models.Proposal, error)
	Update(ctx context.Context, id int64, patch *ProposalPatch) error
	Delete(ctx context.Context, id int64) error

	// Exists reports whether freelancerID has any proposal on projectID
	Exists(ctx context.Context, projectID, freelancerID int64) (bool, error)

	// CountByProject returns the number of proposals on a project
	CountByProject(ctx context.Context, projectID int64) (int, error)
}
