package handler

import (
	"log/slog"
	"net/http"

	"marketplace/internal/domain/models"
	"marketplace/internal/domain/services"
	"marketplace/internal/httputil"
)

// ProposalHandler handles proposal HTTP requests
type ProposalHandler struct {
	proposalService services.ProposalService
	logger          *slog.Logger
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(proposalService services.ProposalService, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		logger:          logger,
	}
}

type updateProposalBody struct {
	CoverLetter  httputil.Optional[string]  `json:"cover_letter"`
	BidAmount    httputil.Optional[float64] `json:"bid_amount"`
	DeliveryDays httputil.Optional[int]     `json:"delivery_days"`
}

// CreateProposal submits a proposal
// POST /api/proposals
// Returns 201 if created, 409 with the existing proposal if one was already submitted
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.CreateProposalRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.CreateProposal(r.Context(), principal, &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id int64) (*models.Proposal, error) {
			return h.proposalService.GetProposal(r.Context(), id, principal)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, proposal)
}

// ListMyProposals returns the caller's proposals
// GET /api/proposals/mine
func (h *ProposalHandler) ListMyProposals(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListMyProposals(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, proposals)
}

// ListProjectProposals returns the proposals submitted for a project
// GET /api/proposals/project/{projectId}
func (h *ProposalHandler) ListProjectProposals(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListProjectProposals(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, proposals)
}

// GetProposal retrieves a proposal by ID
// GET /api/proposals/{id}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetProposal(r.Context(), id, principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, proposal)
}

// UpdateProposal updates a proposal
// PATCH /api/proposals/{id}
func (h *ProposalHandler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body updateProposalBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.UpdateProposal(r.Context(), id, principal, &services.UpdateProposalRequest{
		CoverLetter:  body.CoverLetter.Ptr(),
		BidAmount:    body.BidAmount.Ptr(),
		DeliveryDays: body.DeliveryDays.Ptr(),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, proposal)
}

// DeleteProposal deletes a proposal
// DELETE /api/proposals/{id}
func (h *ProposalHandler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.proposalService.DeleteProposal(r.Context(), id, principal); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
