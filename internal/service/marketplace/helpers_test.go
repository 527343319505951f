package marketplace

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"marketplace/internal/config"
	"marketplace/internal/domain/models"
	"marketplace/internal/domain/services"
	"marketplace/internal/repository/sqlite"
	"marketplace/internal/repository/sqlrepo"
	authsvc "marketplace/internal/service/auth"
	"marketplace/internal/testutil"
)

type testEnv struct {
	store     *sqlite.Store
	projects  *sqlrepo.ProjectRepository
	proposals *sqlrepo.ProposalRepository
	files     *sqlrepo.FileRepository
	blobs     *fakeBlobStore

	projectSvc  services.ProjectService
	proposalSvc services.ProposalService
	fileSvc     services.FileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.NewStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	projects := sqlrepo.NewProjectRepository(store)
	skills := sqlrepo.NewSkillRepository(store)
	proposals := sqlrepo.NewProposalRepository(store)
	files := sqlrepo.NewFileRepository(store)
	owners := sqlrepo.NewOwnershipRepository(store)

	policy, err := config.LoadUploadPolicy("")
	if err != nil {
		t.Fatalf("load upload policy: %v", err)
	}

	blobs := newFakeBlobStore()
	authorizer := authsvc.NewEntityAccess(projects, proposals, owners)

	return &testEnv{
		store:       store,
		projects:    projects,
		proposals:   proposals,
		files:       files,
		blobs:       blobs,
		projectSvc:  NewProjectService(store, projects, skills, proposals, logger),
		proposalSvc: NewProposalService(proposals, projects, logger),
		fileSvc:     NewFileService(files, authorizer, blobs, policy, logger),
	}
}

func (e *testEnv) user(t *testing.T, email string, role models.Role) models.Principal {
	t.Helper()
	return testutil.InsertUser(t, e.store, email, role)
}

func (e *testEnv) project(t *testing.T, owner models.Principal) *models.ProjectView {
	t.Helper()

	view, err := e.projectSvc.CreateProject(context.Background(), owner, &services.CreateProjectRequest{
		Title:       "Build a landing page",
		Description: "Responsive, two sections",
		BudgetMin:   floatPtr(100),
		BudgetMax:   floatPtr(500),
		Skills:      []string{"html", "css"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return view
}

func (e *testEnv) proposal(t *testing.T, freelancer models.Principal, projectID int64) *models.Proposal {
	t.Helper()

	proposal, err := e.proposalSvc.CreateProposal(context.Background(), freelancer, &services.CreateProposalRequest{
		ProjectID:    projectID,
		CoverLetter:  "I have done this before",
		BidAmount:    400,
		DeliveryDays: 5,
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return proposal
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }

// fakeBlobStore keeps blobs in memory and can be told to fail removals
type fakeBlobStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	failRemove bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Store(_ context.Context, name string, r io.Reader, _ services.BlobMeta) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[name] = buf.Bytes()
	return name, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRemove {
		return errors.New("storage unavailable")
	}
	delete(f.blobs, path)
	return nil
}

func (f *fakeBlobStore) Exists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[path]
	return ok, nil
}

func (f *fakeBlobStore) setFailRemove(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRemove = fail
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}
