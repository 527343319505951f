package marketplace

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/services"
	"marketplace/internal/repository/sqlrepo"
	authsvc "marketplace/internal/service/auth"
	"marketplace/internal/storage/local"
	"marketplace/internal/testutil"
)

func (e *testEnv) upload(t *testing.T, uploader models.Principal, entityType models.EntityType, entityID int64) *models.File {
	t.Helper()

	content := "PNG bytes"
	file, err := e.fileSvc.UploadFile(context.Background(), uploader, &services.UploadFileRequest{
		OriginalName: "screen shot.png",
		ContentType:  "image/png",
		Size:         int64(len(content)),
		EntityType:   entityType,
		EntityID:     entityID,
		Content:      strings.NewReader(content),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return file
}

func TestFileService_UploadFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.user(t, "client@example.com", models.RoleClient)

	file := env.upload(t, client, models.EntityProject, 1)

	if !strings.HasSuffix(file.Filename, "-screen_shot.png") {
		t.Errorf("Filename = %q, want <millis>-screen_shot.png", file.Filename)
	}
	if file.OriginalName != "screen shot.png" {
		t.Errorf("OriginalName = %q", file.OriginalName)
	}
	if env.blobs.count() != 1 {
		t.Errorf("blob count = %d, want 1", env.blobs.count())
	}

	_, err := env.fileSvc.UploadFile(ctx, client, &services.UploadFileRequest{
		OriginalName: "virus.exe",
		ContentType:  "image/png",
		Size:         10,
		EntityType:   models.EntityProject,
		EntityID:     1,
		Content:      strings.NewReader("MZ"),
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "extension" {
		t.Errorf("UploadFile(.exe) error = %v, want extension rejection", err)
	}
	if env.blobs.count() != 1 {
		t.Error("rejected upload must not store a blob")
	}
}

func TestFileService_UploadRemovesBlobWhenMetadataFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// uploader id 4242 does not exist, so the foreign key rejects the row
	ghost := models.Principal{ID: 4242, Role: models.RoleClient}
	_, err := env.fileSvc.UploadFile(ctx, ghost, &services.UploadFileRequest{
		OriginalName: "a.pdf",
		ContentType:  "application/pdf",
		Size:         3,
		EntityType:   models.EntityProject,
		EntityID:     1,
		Content:      strings.NewReader("pdf"),
	})
	if err == nil {
		t.Fatal("expected metadata insert to fail")
	}
	if env.blobs.count() != 0 {
		t.Errorf("orphaned blob left behind: count = %d", env.blobs.count())
	}
}

func TestFileService_ViewDelegation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	bidder := env.user(t, "bidder@example.com", models.RoleFreelancer)
	stranger := env.user(t, "stranger@example.com", models.RoleFreelancer)
	admin := env.user(t, "admin@example.com", models.RoleAdmin)

	project := env.project(t, client)
	proposal := env.proposal(t, bidder, project.ID)

	gig := testutil.InsertGig(t, env.store, bidder.ID)
	order := testutil.InsertOrder(t, env.store, gig, client.ID, bidder.ID)

	projectFile := env.upload(t, client, models.EntityProject, project.ID)
	proposalFile := env.upload(t, bidder, models.EntityProposal, proposal.ID)
	gigFile := env.upload(t, admin, models.EntityGig, gig)
	orderFile := env.upload(t, admin, models.EntityOrder, order)
	danglingFile := env.upload(t, admin, models.EntityGig, 9999)

	tests := []struct {
		name      string
		file      *models.File
		principal models.Principal
		allowed   bool
	}{
		{"project file: uploader", projectFile, client, true},
		{"project file: proposal author", projectFile, bidder, true},
		{"project file: stranger", projectFile, stranger, false},
		{"project file: admin", projectFile, admin, true},
		{"proposal file: project client", proposalFile, client, true},
		{"proposal file: stranger", proposalFile, stranger, false},
		{"gig file: gig freelancer", gigFile, bidder, true},
		{"gig file: client", gigFile, client, false},
		{"order file: order client", orderFile, client, true},
		{"order file: order freelancer", orderFile, bidder, true},
		{"order file: stranger", orderFile, stranger, false},
		{"dangling gig: freelancer", danglingFile, bidder, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.fileSvc.GetFile(ctx, tt.file.ID, tt.principal)
			if tt.allowed && err != nil {
				t.Fatalf("GetFile() error = %v, want allowed", err)
			}
			if !tt.allowed && !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("GetFile() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFileService_DeleteFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	bidder := env.user(t, "bidder@example.com", models.RoleFreelancer)
	stranger := env.user(t, "stranger@example.com", models.RoleFreelancer)

	project := env.project(t, client)
	env.proposal(t, bidder, project.ID)
	file := env.upload(t, client, models.EntityProject, project.ID)

	if err := env.fileSvc.DeleteFile(ctx, file.ID, bidder); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("DeleteFile() by delegated viewer error = %v, want ErrForbidden", err)
	}
	if err := env.fileSvc.DeleteFile(ctx, file.ID, stranger); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteFile() by stranger error = %v, want ErrNotFound", err)
	}

	if err := env.fileSvc.DeleteFile(ctx, file.ID, client); err != nil {
		t.Fatalf("DeleteFile() by uploader error = %v", err)
	}
	if env.blobs.count() != 0 {
		t.Error("blob not removed")
	}
	if _, err := env.files.GetByID(ctx, file.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("row still present: %v", err)
	}
}

func TestFileService_DeleteCompensation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	file := env.upload(t, client, models.EntityProject, 1)

	env.blobs.setFailRemove(true)
	if err := env.fileSvc.DeleteFile(ctx, file.ID, client); err == nil {
		t.Fatal("DeleteFile() should report the blob failure")
	}

	row, err := env.files.GetByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("row should be kept: %v", err)
	}
	if row.Status != models.FileStatusPendingDelete {
		t.Errorf("Status = %q, want pending_delete", row.Status)
	}

	// hidden from reads while pending
	if _, err := env.fileSvc.GetFile(ctx, file.ID, client); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetFile() on pending row error = %v, want ErrNotFound", err)
	}
	listed, _ := env.fileSvc.ListEntityFiles(ctx, models.EntityProject, 1)
	if len(listed) != 0 {
		t.Errorf("ListEntityFiles() = %v, want empty", listed)
	}

	result, err := env.fileSvc.ReconcilePendingDeletes(ctx)
	if err != nil {
		t.Fatalf("ReconcilePendingDeletes() error = %v", err)
	}
	if result.Completed != 0 || result.Failed != 1 {
		t.Errorf("result while failing = %+v", result)
	}

	env.blobs.setFailRemove(false)
	result, err = env.fileSvc.ReconcilePendingDeletes(ctx)
	if err != nil {
		t.Fatalf("ReconcilePendingDeletes() error = %v", err)
	}
	if result.Completed != 1 || result.Failed != 0 {
		t.Errorf("result after recovery = %+v", result)
	}
	if _, err := env.files.GetByID(ctx, file.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("row should be gone: %v", err)
	}
}

func TestFileService_RepeatDeleteFinishesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.user(t, "client@example.com", models.RoleClient)
	file := env.upload(t, client, models.EntityProject, 1)

	env.blobs.setFailRemove(true)
	_ = env.fileSvc.DeleteFile(ctx, file.ID, client)
	env.blobs.setFailRemove(false)

	if err := env.fileSvc.DeleteFile(ctx, file.ID, client); err != nil {
		t.Fatalf("repeat DeleteFile() error = %v", err)
	}
	if env.blobs.count() != 0 {
		t.Error("blob not removed on retry")
	}
}

func TestFileService_ListEntityFilesInvalidType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.fileSvc.ListEntityFiles(context.Background(), models.EntityType("invoice"), 1)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestFileService_SameNameUploadsInOneMillisecond(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	blobs, err := local.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}
	t.Cleanup(func() { blobs.Close() })

	policy, err := config.LoadUploadPolicy("")
	if err != nil {
		t.Fatalf("load upload policy: %v", err)
	}
	authorizer := authsvc.NewEntityAccess(env.projects, env.proposals, sqlrepo.NewOwnershipRepository(env.store))
	svc := NewFileService(env.files, authorizer, blobs, policy, logger).(*fileService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first := env.user(t, "first@example.com", models.RoleClient)
	second := env.user(t, "second@example.com", models.RoleClient)

	var uploaded []*models.File
	for _, uploader := range []models.Principal{first, second} {
		content := "%PDF-1.7"
		file, err := svc.UploadFile(ctx, uploader, &services.UploadFileRequest{
			OriginalName: "resume.pdf",
			ContentType:  "application/pdf",
			Size:         int64(len(content)),
			EntityType:   models.EntityProject,
			EntityID:     1,
			Content:      strings.NewReader(content),
		})
		if err != nil {
			t.Fatalf("upload by %d: %v", uploader.ID, err)
		}
		uploaded = append(uploaded, file)
	}

	if uploaded[0].FilePath == uploaded[1].FilePath {
		t.Fatalf("both uploads stored at %q", uploaded[0].FilePath)
	}

	if err := svc.DeleteFile(ctx, uploaded[0].ID, first); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	exists, err := blobs.Exists(ctx, uploaded[1].FilePath)
	if err != nil || !exists {
		t.Errorf("second blob exists = %v, err = %v; want it kept", exists, err)
	}
}

func TestFileService_ReconcileLogsOneSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var logs bytes.Buffer
	policy, err := config.LoadUploadPolicy("")
	if err != nil {
		t.Fatalf("load upload policy: %v", err)
	}
	authorizer := authsvc.NewEntityAccess(env.projects, env.proposals, sqlrepo.NewOwnershipRepository(env.store))
	env.fileSvc = NewFileService(env.files, authorizer, env.blobs, policy, slog.New(slog.NewJSONHandler(&logs, nil)))

	client := env.user(t, "client@example.com", models.RoleClient)
	file := env.upload(t, client, models.EntityProject, 1)

	env.blobs.setFailRemove(true)
	_ = env.fileSvc.DeleteFile(ctx, file.ID, client)
	env.blobs.setFailRemove(false)
	logs.Reset()

	result, err := env.fileSvc.ReconcilePendingDeletes(ctx)
	if err != nil {
		t.Fatalf("ReconcilePendingDeletes() error = %v", err)
	}
	if result.Completed != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want 1 completed", result)
	}
	if n := strings.Count(logs.String(), "pending file deletions reconciled"); n != 1 {
		t.Errorf("summary logged %d times, want 1", n)
	}
}
