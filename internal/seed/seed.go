// Package seed populates a database with demo accounts, projects and
// proposals for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/domain/services"
	"marketplace/internal/service/account"
)

// AdminEmail marks a seeded database; seeding is skipped when it exists
const AdminEmail = "admin@example.com"

// Summary reports what a seed run created
type Summary struct {
	Skipped   bool
	Users     int
	Projects  int
	Proposals int
}

// Seeder creates demo data through the domain services so every row obeys
// the same rules as API writes
type Seeder struct {
	users     repositories.UserRepository
	accounts  services.AccountService
	projects  services.ProjectService
	proposals services.ProposalService
	logger    *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	users repositories.UserRepository,
	accounts services.AccountService,
	projects services.ProjectService,
	proposals services.ProposalService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:     users,
		accounts:  accounts,
		projects:  projects,
		proposals: proposals,
		logger:    logger,
	}
}

type demoUser struct {
	email string
	name  string
	role  models.Role
}

var demoUsers = []demoUser{
	{"alice@example.com", "Alice Client", models.RoleClient},
	{"bob@example.com", "Bob Client", models.RoleClient},
	{"carol@example.com", "Carol Freelancer", models.RoleFreelancer},
	{"dave@example.com", "Dave Freelancer", models.RoleFreelancer},
}

type demoProject struct {
	owner string
	req   services.CreateProjectRequest
}

var demoProjects = []demoProject{
	{"alice@example.com", services.CreateProjectRequest{
		Title:        "Marketing site redesign",
		Description:  "Refresh the landing page and pricing page with the new brand.",
		Category:     "web",
		BudgetMin:    floatPtr(800),
		BudgetMax:    floatPtr(1500),
		DurationDays: intPtr(21),
		Skills:       []string{"html", "css", "figma"},
	}},
	{"alice@example.com", services.CreateProjectRequest{
		Title:       "Data import script",
		Description: "Import a CSV export of orders into Postgres nightly.",
		Category:    "backend",
		BudgetMin:   floatPtr(300),
		Skills:      []string{"go", "postgres"},
	}},
	{"bob@example.com", services.CreateProjectRequest{
		Title:        "Mobile app icon set",
		Description:  "Twelve icons in a consistent line style.",
		Category:     "design",
		BudgetMax:    floatPtr(400),
		DurationDays: intPtr(7),
		Skills:       []string{"illustration"},
	}},
}

// Seed creates the admin, demo users, projects and proposals. password is
// shared by every seeded account.
func (s *Seeder) Seed(ctx context.Context, password string) (*Summary, error) {
	if _, err := s.users.GetByEmail(ctx, AdminEmail); err == nil {
		s.logger.Info("database already seeded", "admin", AdminEmail)
		return &Summary{Skipped: true}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	summary := &Summary{}

	hash, err := account.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Email:        AdminEmail,
		PasswordHash: hash,
		FullName:     "Site Admin",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	summary.Users++

	principals := make(map[string]models.Principal, len(demoUsers))
	for _, u := range demoUsers {
		result, err := s.accounts.Register(ctx, &services.RegisterRequest{
			Email:    u.email,
			Password: password,
			FullName: u.name,
			Role:     u.role,
		})
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", u.email, err)
		}
		principals[u.email] = result.User.Principal()
		summary.Users++
	}

	var projectIDs []int64
	for _, p := range demoProjects {
		req := p.req
		view, err := s.projects.CreateProject(ctx, principals[p.owner], &req)
		if err != nil {
			return nil, fmt.Errorf("create project %q: %w", p.req.Title, err)
		}
		projectIDs = append(projectIDs, view.ID)
		summary.Projects++
	}

	freelancers := []string{"carol@example.com", "dave@example.com"}
	for i, projectID := range projectIDs {
		for j, email := range freelancers {
			if (i+j)%2 == 1 {
				continue
			}
			_, err := s.proposals.CreateProposal(ctx, principals[email], &services.CreateProposalRequest{
				ProjectID:    projectID,
				CoverLetter:  "Happy to help with this, I have shipped similar work recently.",
				BidAmount:    float64(250 * (i + j + 1)),
				DeliveryDays: 5 + i + j,
			})
			if err != nil {
				return nil, fmt.Errorf("create proposal: %w", err)
			}
			summary.Proposals++
		}
	}

	s.logger.Info("seeding complete",
		"users", summary.Users,
		"projects", summary.Projects,
		"proposals", summary.Proposals,
	)

	return summary, nil
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
