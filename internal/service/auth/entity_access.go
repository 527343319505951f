package auth

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
)

// entityCheck decides whether principal may see one entity of a fixed type.
// A missing entity must report (false, nil).
type entityCheck func(ctx context.Context, principal models.Principal, entityID int64) (bool, error)

// EntityAccess implements services.EntityAuthorizer with one check per
// entity type. The table is closed: types without a check are denied.
type EntityAccess struct {
	projectRepo  repositories.ProjectRepository
	proposalRepo repositories.ProposalRepository
	ownerRepo    repositories.OwnershipRepository
	checks       map[models.EntityType]entityCheck
}

// NewEntityAccess creates an entity authorizer over the owning repositories
func NewEntityAccess(
	projectRepo repositories.ProjectRepository,
	proposalRepo repositories.ProposalRepository,
	ownerRepo repositories.OwnershipRepository,
) *EntityAccess {
	a := &EntityAccess{
		projectRepo:  projectRepo,
		proposalRepo: proposalRepo,
		ownerRepo:    ownerRepo,
	}
	a.checks = map[models.EntityType]entityCheck{
		models.EntityProject:  a.canViewProject,
		models.EntityProposal: a.canViewProposal,
		models.EntityGig:      a.canViewGig,
		models.EntityOrder:    a.canViewOrder,
	}
	return a
}

// CanViewEntity dispatches to the check registered for entityType
func (a *EntityAccess) CanViewEntity(ctx context.Context, principal models.Principal, entityType models.EntityType, entityID int64) (bool, error) {
	check, ok := a.checks[entityType]
	if !ok {
		return false, nil
	}
	return check(ctx, principal, entityID)
}

// canViewProject: the owning client, or anyone with a proposal on it
func (a *EntityAccess) canViewProject(ctx context.Context, principal models.Principal, projectID int64) (bool, error) {
	project, err := a.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return denyMissing(err, "project")
	}
	if principal.Owns(project.ClientID) {
		return true, nil
	}

	exists, err := a.proposalRepo.Exists(ctx, projectID, principal.ID)
	if err != nil {
		return false, fmt.Errorf("check proposal for auth: %w", err)
	}
	return exists, nil
}

// canViewProposal: the authoring freelancer, or the client of its project
func (a *EntityAccess) canViewProposal(ctx context.Context, principal models.Principal, proposalID int64) (bool, error) {
	proposal, err := a.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return denyMissing(err, "proposal")
	}
	if principal.Owns(proposal.FreelancerID) {
		return true, nil
	}

	project, err := a.projectRepo.GetByID(ctx, proposal.ProjectID)
	if err != nil {
		return denyMissing(err, "project")
	}
	return principal.Owns(project.ClientID), nil
}

func (a *EntityAccess) canViewGig(ctx context.Context, principal models.Principal, gigID int64) (bool, error) {
	gig, err := a.ownerRepo.GetGig(ctx, gigID)
	if err != nil {
		return denyMissing(err, "gig")
	}
	return principal.Owns(gig.FreelancerID), nil
}

func (a *EntityAccess) canViewOrder(ctx context.Context, principal models.Principal, orderID int64) (bool, error) {
	order, err := a.ownerRepo.GetOrder(ctx, orderID)
	if err != nil {
		return denyMissing(err, "order")
	}
	return principal.Owns(order.ClientID) || principal.Owns(order.FreelancerID), nil
}

// denyMissing turns a dangling reference into a plain denial and wraps
// every other failure.
func denyMissing(err error, kind string) (bool, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get %s for auth: %w", kind, err)
}
