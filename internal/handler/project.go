package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"marketplace/internal/domain/models"
	"marketplace/internal/domain/services"
	"marketplace/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// updateProjectBody tracks which fields a PATCH carries. A null skills
// value clears the skill set; null on other fields leaves them unchanged.
type updateProjectBody struct {
	Title        httputil.Optional[string]               `json:"title"`
	Description  httputil.Optional[string]               `json:"description"`
	Category     httputil.Optional[string]               `json:"category"`
	BudgetMin    httputil.Optional[float64]              `json:"budget_min"`
	BudgetMax    httputil.Optional[float64]              `json:"budget_max"`
	DurationDays httputil.Optional[int]                  `json:"duration_days"`
	Status       httputil.Optional[models.ProjectStatus] `json:"status"`
	Skills       httputil.Optional[[]string]             `json:"skills"`
}

func (b *updateProjectBody) toRequest() *services.UpdateProjectRequest {
	req := &services.UpdateProjectRequest{
		Title:        b.Title.Ptr(),
		Description:  b.Description.Ptr(),
		Category:     b.Category.Ptr(),
		BudgetMin:    b.BudgetMin.Ptr(),
		BudgetMax:    b.BudgetMax.Ptr(),
		DurationDays: b.DurationDays.Ptr(),
		Status:       b.Status.Ptr(),
	}
	if b.Skills.Present {
		skills := []string{}
		if b.Skills.Value != nil {
			skills = *b.Skills.Value
		}
		req.Skills = &skills
	}
	return req
}

// SearchProjects filters projects by query parameters
// GET /api/projects?query=&status=&min_budget=&max_budget=&sort_by=
func (h *ProjectHandler) SearchProjects(w http.ResponseWriter, r *http.Request) {
	criteria := parseSearchCriteria(r)
	projects := h.projectService.SearchProjects(r.Context(), criteria)
	httputil.RespondJSON(w, http.StatusOK, projects)
}

// ListMyProjects returns the caller's projects
// GET /api/projects/mine
func (h *ProjectHandler) ListMyProjects(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	projects, err := h.projectService.ListMyProjects(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), principal, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID
// GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id, principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// UpdateProject updates a project
// PATCH /api/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body updateProjectBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, principal, body.toRequest())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject cancels a project
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id, principal); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseSearchCriteria reads search filters. Unparsable budgets are ignored.
func parseSearchCriteria(r *http.Request) models.ProjectSearchCriteria {
	q := r.URL.Query()

	criteria := models.ProjectSearchCriteria{
		Query:     strings.TrimSpace(q.Get("query")),
		Status:    models.ProjectStatus(q.Get("status")),
		MinBudget: parseBudget(q.Get("min_budget")),
		MaxBudget: parseBudget(q.Get("max_budget")),
		SortBy:    models.ProjectSortNewest,
	}
	if q.Get("sort_by") == string(models.ProjectSortBudget) {
		criteria.SortBy = models.ProjectSortBudget
	}
	return criteria
}

func parseBudget(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
