package sqlrepo

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
)

// OwnershipRepository reads the owner columns of gigs and orders
type OwnershipRepository struct {
	store repositories.Store
}

// NewOwnershipRepository creates a new ownership repository
func NewOwnershipRepository(store repositories.Store) *OwnershipRepository {
	return &OwnershipRepository{store: store}
}

func (r *OwnershipRepository) GetGig(ctx context.Context, id int64) (*models.Gig, error) {
	var gig models.Gig
	err := r.store.QueryOne(ctx,
		`SELECT id, freelancer_id, title FROM gigs WHERE id = ?`, id,
	).Scan(&gig.ID, &gig.FreelancerID, &gig.Title)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("gig %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get gig: %w", err)
	}
	return &gig, nil
}

func (r *OwnershipRepository) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.store.QueryOne(ctx,
		`SELECT id, gig_id, client_id, freelancer_id, status FROM orders WHERE id = ?`, id,
	).Scan(&order.ID, &order.GigID, &order.ClientID, &order.FreelancerID, &order.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// Compile-time interface checks
var (
	_ repositories.ProjectRepository   = (*ProjectRepository)(nil)
	_ repositories.SkillRepository     = (*SkillRepository)(nil)
	_ repositories.ProposalRepository  = (*ProposalRepository)(nil)
	_ repositories.FileRepository      = (*FileRepository)(nil)
	_ repositories.UserRepository      = (*UserRepository)(nil)
	_ repositories.OwnershipRepository = (*OwnershipRepository)(nil)
)
