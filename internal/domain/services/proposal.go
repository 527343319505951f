package services

import (
	"context"

	"marketplace/internal/domain/models"
)

// CreateProposalRequest represents a freelancer's bid on a project
type CreateProposalRequest struct {
	ProjectID    int64   `json:"project_id"`
	CoverLetter  string  `json:"cover_letter"`
	BidAmount    float64 `json:"bid_amount"`
	DeliveryDays int     `json:"delivery_days"`
}

// UpdateProposalRequest is a partial update; nil fields are left untouched
type UpdateProposalRequest struct {
	CoverLetter  *string
	BidAmount    *float64
	DeliveryDays *int
}

// ProposalService defines the proposal access policy and its operations
type ProposalService interface {
	CreateProposal(ctx context.Context, principal models.Principal, req *CreateProposalRequest) (*models.Proposal, error)

	// GetProposal is allowed for the authoring freelancer and the client
	// owning the project; everyone else gets domain.ErrForbidden
	GetProposal(ctx context.Context, id int64, principal models.Principal) (*models.Proposal, error)

	UpdateProposal(ctx context.Context, id int64, principal models.Principal, req *UpdateProposalRequest) (*models.Proposal, error)
	DeleteProposal(ctx context.Context, id int64, principal models.Principal) error

	ListProjectProposals(ctx context.Context, projectID int64) ([]models.Proposal, error)
	ListMyProposals(ctx context.Context, principal models.Principal) ([]models.Proposal, error)
}
