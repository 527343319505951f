package sqlrepo

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/models"
	"marketplace/internal/repository/sqlite"
	"marketplace/internal/testutil"
)

func newTestStore(t *testing.T) *sqlite.Store {
	return testutil.NewStore(t)
}

func createUser(t *testing.T, repo *UserRepository, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     email,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createProject(t *testing.T, repo *ProjectRepository, clientID int64, title string, budget float64) *models.Project {
	t.Helper()

	now := time.Now().UTC()
	project := &models.Project{
		ClientID:    clientID,
		Title:       title,
		Description: "description of " + title,
		Category:    models.DefaultProjectCategory,
		Budget:      budget,
		Status:      models.ProjectStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(context.Background(), project); err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}
	return project
}

func floatPtr(f float64) *float64 { return &f }
