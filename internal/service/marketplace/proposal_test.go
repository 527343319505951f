package marketplace

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/services"
)

func TestProposalService_CreateProposal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	freelancer := env.user(t, "dev@example.com", models.RoleFreelancer)
	project := env.project(t, client)

	valid := services.CreateProposalRequest{ProjectID: project.ID, CoverLetter: "hello", BidAmount: 100, DeliveryDays: 3}

	t.Run("client cannot submit", func(t *testing.T) {
		req := valid
		if _, err := env.proposalSvc.CreateProposal(ctx, client, &req); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		req := valid
		req.ProjectID = 9999
		if _, err := env.proposalSvc.CreateProposal(ctx, freelancer, &req); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid bid", func(t *testing.T) {
		req := valid
		req.BidAmount = 0
		if _, err := env.proposalSvc.CreateProposal(ctx, freelancer, &req); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("first proposal", func(t *testing.T) {
		req := valid
		proposal, err := env.proposalSvc.CreateProposal(ctx, freelancer, &req)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if proposal.Status != models.ProposalStatusPending || proposal.FreelancerID != freelancer.ID {
			t.Errorf("proposal = %+v", proposal)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		req := valid
		if _, err := env.proposalSvc.CreateProposal(ctx, freelancer, &req); !errors.Is(err, domain.ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("project not open", func(t *testing.T) {
		if err := env.projectSvc.DeleteProject(ctx, project.ID, client); err != nil {
			t.Fatalf("cancel project: %v", err)
		}
		other := env.user(t, "dev2@example.com", models.RoleFreelancer)
		req := valid
		_, err := env.proposalSvc.CreateProposal(ctx, other, &req)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "project_id" {
			t.Errorf("error = %v, want ValidationError on project_id", err)
		}
	})
}

func TestProposalService_GetProposal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	otherClient := env.user(t, "other@example.com", models.RoleClient)
	author := env.user(t, "dev@example.com", models.RoleFreelancer)
	otherFreelancer := env.user(t, "dev2@example.com", models.RoleFreelancer)
	admin := env.user(t, "admin@example.com", models.RoleAdmin)

	project := env.project(t, client)
	proposal := env.proposal(t, author, project.ID)

	tests := []struct {
		name      string
		principal models.Principal
		wantErr   error
	}{
		{"author", author, nil},
		{"project client", client, nil},
		{"other client", otherClient, domain.ErrForbidden},
		{"other freelancer", otherFreelancer, domain.ErrForbidden},
		{"admin", admin, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.proposalSvc.GetProposal(ctx, proposal.ID, tt.principal)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("GetProposal() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetProposal() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := env.proposalSvc.GetProposal(ctx, 9999, author); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetProposal(missing) error = %v, want ErrNotFound", err)
	}
}

func TestProposalService_UpdateAndDeleteGates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	author := env.user(t, "dev@example.com", models.RoleFreelancer)
	otherFreelancer := env.user(t, "dev2@example.com", models.RoleFreelancer)

	project := env.project(t, client)
	proposal := env.proposal(t, author, project.ID)

	req := &services.UpdateProposalRequest{BidAmount: floatPtr(450)}

	// role gate: the project owner is not a freelancer
	if _, err := env.proposalSvc.UpdateProposal(ctx, proposal.ID, client, req); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("UpdateProposal() by client error = %v, want ErrForbidden", err)
	}
	// authorship gate
	if _, err := env.proposalSvc.UpdateProposal(ctx, proposal.ID, otherFreelancer, req); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("UpdateProposal() by other freelancer error = %v, want ErrForbidden", err)
	}

	updated, err := env.proposalSvc.UpdateProposal(ctx, proposal.ID, author, req)
	if err != nil {
		t.Fatalf("UpdateProposal() error = %v", err)
	}
	if updated.BidAmount != 450 || updated.CoverLetter != proposal.CoverLetter || updated.DeliveryDays != proposal.DeliveryDays {
		t.Errorf("after update = %+v", updated)
	}

	if _, err := env.proposalSvc.UpdateProposal(ctx, proposal.ID, author, &services.UpdateProposalRequest{DeliveryDays: intPtr(0)}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpdateProposal() with zero days error = %v, want ErrValidation", err)
	}

	if err := env.proposalSvc.DeleteProposal(ctx, proposal.ID, client); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("DeleteProposal() by client error = %v, want ErrForbidden", err)
	}
	if err := env.proposalSvc.DeleteProposal(ctx, proposal.ID, otherFreelancer); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("DeleteProposal() by other freelancer error = %v, want ErrForbidden", err)
	}
	if err := env.proposalSvc.DeleteProposal(ctx, proposal.ID, author); err != nil {
		t.Fatalf("DeleteProposal() error = %v", err)
	}
	if err := env.proposalSvc.DeleteProposal(ctx, proposal.ID, author); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second DeleteProposal() error = %v, want ErrNotFound", err)
	}
}

func TestProposalService_Lists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	a := env.user(t, "a@example.com", models.RoleFreelancer)
	b := env.user(t, "b@example.com", models.RoleFreelancer)

	p1 := env.project(t, client)
	p2 := env.project(t, client)
	env.proposal(t, a, p1.ID)
	env.proposal(t, b, p1.ID)
	env.proposal(t, a, p2.ID)

	byProject, err := env.proposalSvc.ListProjectProposals(ctx, p1.ID)
	if err != nil {
		t.Fatalf("ListProjectProposals() error = %v", err)
	}
	if len(byProject) != 2 {
		t.Errorf("ListProjectProposals() returned %d, want 2", len(byProject))
	}

	mine, err := env.proposalSvc.ListMyProposals(ctx, a)
	if err != nil {
		t.Fatalf("ListMyProposals() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListMyProposals() returned %d, want 2", len(mine))
	}
}
