package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/domain/services"
	"marketplace/internal/sanitizer"
)

// proposalService implements the ProposalService interface
type proposalService struct {
	proposalRepo repositories.ProposalRepository
	projectRepo  repositories.ProjectRepository
	text         *sanitizer.TextSanitizer
	logger       *slog.Logger
}

// NewProposalService creates a new proposal service
func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		text:         sanitizer.NewTextSanitizer(),
		logger:       logger,
	}
}

// CreateProposal submits a freelancer's proposal on an open project. A
// freelancer gets one proposal per project.
func (s *proposalService) CreateProposal(ctx context.Context, principal models.Principal, req *services.CreateProposalRequest) (*models.Proposal, error) {
	if !principal.IsFreelancer() {
		return nil, fmt.Errorf("only freelancers can submit proposals: %w", domain.ErrForbidden)
	}

	req.CoverLetter = s.text.Clean(req.CoverLetter)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("project %d is not accepting proposals", project.ID),
			Field:   "project_id",
		}
	}

	now := time.Now().UTC()
	proposal := &models.Proposal{
		ProjectID:    project.ID,
		FreelancerID: principal.ID,
		CoverLetter:  req.CoverLetter,
		BidAmount:    req.BidAmount,
		DeliveryDays: req.DeliveryDays,
		Status:       models.ProposalStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.logger.Info("proposal submitted",
		"id", proposal.ID,
		"project_id", proposal.ProjectID,
		"freelancer_id", principal.ID,
	)

	return proposal, nil
}

// GetProposal returns the proposal to its author or to the client that owns
// the project
func (s *proposalService) GetProposal(ctx context.Context, id int64, principal models.Principal) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if principal.Owns(proposal.FreelancerID) {
		return proposal, nil
	}

	project, err := s.projectRepo.GetByID(ctx, proposal.ProjectID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if project != nil && principal.Owns(project.ClientID) {
		return proposal, nil
	}

	return nil, fmt.Errorf("proposal %d: %w", id, domain.ErrForbidden)
}

// UpdateProposal writes the present fields; authors only
func (s *proposalService) UpdateProposal(ctx context.Context, id int64, principal models.Principal, req *services.UpdateProposalRequest) (*models.Proposal, error) {
	proposal, err := s.authorizeAuthor(ctx, id, principal)
	if err != nil {
		return nil, err
	}

	req.CoverLetter = s.text.CleanPtr(req.CoverLetter)

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	patch := &repositories.ProposalPatch{
		CoverLetter:  req.CoverLetter,
		BidAmount:    req.BidAmount,
		DeliveryDays: req.DeliveryDays,
	}
	if err := s.proposalRepo.Update(ctx, proposal.ID, patch); err != nil {
		return nil, err
	}

	s.logger.Info("proposal updated",
		"id", proposal.ID,
		"freelancer_id", principal.ID,
	)

	return s.proposalRepo.GetByID(ctx, proposal.ID)
}

// DeleteProposal removes the proposal; authors only
func (s *proposalService) DeleteProposal(ctx context.Context, id int64, principal models.Principal) error {
	proposal, err := s.authorizeAuthor(ctx, id, principal)
	if err != nil {
		return err
	}

	if err := s.proposalRepo.Delete(ctx, proposal.ID); err != nil {
		return err
	}

	s.logger.Info("proposal deleted",
		"id", proposal.ID,
		"project_id", proposal.ProjectID,
		"freelancer_id", principal.ID,
	)

	return nil
}

// ListProjectProposals lists every proposal on a project
func (s *proposalService) ListProjectProposals(ctx context.Context, projectID int64) ([]models.Proposal, error) {
	return s.proposalRepo.ListByProject(ctx, projectID)
}

// ListMyProposals lists the principal's own proposals
func (s *proposalService) ListMyProposals(ctx context.Context, principal models.Principal) ([]models.Proposal, error) {
	return s.proposalRepo.ListByFreelancer(ctx, principal.ID)
}

// authorizeAuthor applies the freelancer role gate, then the authorship gate
func (s *proposalService) authorizeAuthor(ctx context.Context, id int64, principal models.Principal) (*models.Proposal, error) {
	if !principal.IsFreelancer() {
		return nil, fmt.Errorf("only freelancers can modify proposals: %w", domain.ErrForbidden)
	}

	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.Owns(proposal.FreelancerID) {
		return nil, fmt.Errorf("proposal %d: %w", id, domain.ErrForbidden)
	}

	return proposal, nil
}

// validateCreateRequest validates a create proposal request
func (s *proposalService) validateCreateRequest(req *services.CreateProposalRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.CoverLetter,
			validation.Required,
			validation.Length(1, config.MaxCoverLetterLength),
			validation.By(notBlank),
		),
		validation.Field(&req.BidAmount, validation.Required, validation.Min(0.01)),
		validation.Field(&req.DeliveryDays, validation.Required, validation.Min(1)),
	)
}

// validateUpdateRequest validates the present fields of an update request
func (s *proposalService) validateUpdateRequest(req *services.UpdateProposalRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CoverLetter,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxCoverLetterLength),
			validation.By(notBlank),
		),
		validation.Field(&req.BidAmount, validation.NilOrNotEmpty, validation.Min(0.01)),
		validation.Field(&req.DeliveryDays, validation.NilOrNotEmpty, validation.Min(1)),
	)
}
