package handler

import "net/http"

// Routes groups the handlers served by the API
type Routes struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Project  *ProjectHandler
	Proposal *ProposalHandler
	File     *FileHandler

	// LoginGuard wraps the login endpoint
	LoginGuard func(http.Handler) http.Handler
}

// Register adds every route to mux (Go 1.22+ method patterns)
func (rt *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", rt.Health.HealthCheck)

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register)
	login := http.Handler(http.HandlerFunc(rt.Auth.Login))
	if rt.LoginGuard != nil {
		login = rt.LoginGuard(login)
	}
	mux.Handle("POST /api/auth/login", login)

	// Project routes
	mux.HandleFunc("GET /api/projects", rt.Project.SearchProjects)
	mux.HandleFunc("POST /api/projects", rt.Project.CreateProject)
	mux.HandleFunc("GET /api/projects/mine", rt.Project.ListMyProjects) // more specific than {id}
	mux.HandleFunc("GET /api/projects/{id}", rt.Project.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", rt.Project.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", rt.Project.DeleteProject)

	// Proposal routes
	mux.HandleFunc("POST /api/proposals", rt.Proposal.CreateProposal)
	mux.HandleFunc("GET /api/proposals/mine", rt.Proposal.ListMyProposals)
	mux.HandleFunc("GET /api/proposals/project/{projectId}", rt.Proposal.ListProjectProposals)
	mux.HandleFunc("GET /api/proposals/{id}", rt.Proposal.GetProposal)
	mux.HandleFunc("PATCH /api/proposals/{id}", rt.Proposal.UpdateProposal)
	mux.HandleFunc("DELETE /api/proposals/{id}", rt.Proposal.DeleteProposal)

	// File routes
	mux.HandleFunc("POST /api/files/upload", rt.File.UploadFile)
	mux.HandleFunc("GET /api/files/entity/{type}/{id}", rt.File.ListEntityFiles)
	mux.HandleFunc("GET /api/files/{id}", rt.File.GetFile)
	mux.HandleFunc("DELETE /api/files/{id}", rt.File.DeleteFile)
}
