package app

import (
	"context"
	"log/slog"

	"marketplace/internal/config"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/domain/services"
	"marketplace/internal/repository/sqlrepo"
	"marketplace/internal/service/account"
	authsvc "marketplace/internal/service/auth"
	"marketplace/internal/service/marketplace"
)

// Services holds the domain services built over one store
type Services struct {
	Users    repositories.UserRepository
	Account  services.AccountService
	Project  services.ProjectService
	Proposal services.ProposalService
	File     services.FileService
}

// NewServices wires repositories and services over store
func NewServices(
	store repositories.Store,
	blobs services.BlobStore,
	policy *config.UploadPolicy,
	issuer account.TokenIssuer,
	logger *slog.Logger,
) *Services {
	projectRepo := sqlrepo.NewProjectRepository(store)
	skillRepo := sqlrepo.NewSkillRepository(store)
	proposalRepo := sqlrepo.NewProposalRepository(store)
	fileRepo := sqlrepo.NewFileRepository(store)
	ownerRepo := sqlrepo.NewOwnershipRepository(store)
	userRepo := sqlrepo.NewUserRepository(store)

	entityAccess := authsvc.NewEntityAccess(projectRepo, proposalRepo, ownerRepo)

	return &Services{
		Users:    userRepo,
		Account:  account.NewAccountService(userRepo, issuer, logger),
		Project:  marketplace.NewProjectService(store, projectRepo, skillRepo, proposalRepo, logger),
		Proposal: marketplace.NewProposalService(proposalRepo, projectRepo, logger),
		File:     marketplace.NewFileService(fileRepo, entityAccess, blobs, policy, logger),
	}
}

// FileReconcileJob adapts ReconcilePendingDeletes to a periodic worker job.
// The service logs the outcome of each run.
func FileReconcileJob(files services.FileService) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := files.ReconcilePendingDeletes(ctx)
		return err
	}
}
