package sqlrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
)

func TestFileRepository_StatusVisibility(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	files := NewFileRepository(store)
	ctx := context.Background()

	uploader := createUser(t, users, "up@example.com", models.RoleClient)

	newFile := func(name string) *models.File {
		f := &models.File{
			UploaderID:   uploader.ID,
			Filename:     "1700000000000-" + name,
			OriginalName: name,
			FilePath:     "1700000000000-" + name,
			FileSize:     42,
			MimeType:     "image/png",
			EntityType:   models.EntityProject,
			EntityID:     7,
			CreatedAt:    time.Now().UTC(),
		}
		if err := files.Create(ctx, f); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return f
	}

	keep := newFile("a.png")
	gone := newFile("b.png")
	if keep.Status != models.FileStatusActive {
		t.Errorf("default status = %q, want active", keep.Status)
	}

	if err := files.SetStatus(ctx, gone.ID, models.FileStatusPendingDelete); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	listed, err := files.ListByEntity(ctx, models.EntityProject, 7)
	if err != nil {
		t.Fatalf("ListByEntity() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != keep.ID {
		t.Errorf("ListByEntity() = %+v, want only the active file", listed)
	}

	pending, _ := files.ListPendingDelete(ctx)
	if len(pending) != 1 || pending[0].ID != gone.ID {
		t.Errorf("ListPendingDelete() = %+v", pending)
	}

	got, err := files.GetByID(ctx, gone.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.FileStatusPendingDelete {
		t.Errorf("Status = %q, want pending_delete", got.Status)
	}

	if err := files.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := files.GetByID(ctx, gone.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v", err)
	}
}

func TestUserRepository_EmailCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	ctx := context.Background()

	created := createUser(t, users, "Mixed@Example.com", models.RoleFreelancer)

	got, err := users.GetByEmail(ctx, "MIXED@example.COM")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail() id = %d, want %d", got.ID, created.ID)
	}

	dup := &models.User{Email: "mixed@example.com", PasswordHash: "x", FullName: "x", Role: models.RoleClient, CreatedAt: time.Now().UTC()}
	if err := users.Create(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate Create() error = %v, want ErrConflict", err)
	}
}

func TestOwnershipRepository_Missing(t *testing.T) {
	store := newTestStore(t)
	owners := NewOwnershipRepository(store)
	ctx := context.Background()

	if _, err := owners.GetGig(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetGig() error = %v, want ErrNotFound", err)
	}
	if _, err := owners.GetOrder(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetOrder() error = %v, want ErrNotFound", err)
	}
}
