package handlers

import (
	"net/http"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/domain/services"
)

// SwapHandler drives the swap form of a session
type SwapHandler struct {
	sessions *services.SessionService
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(sessions *services.SessionService) *SwapHandler {
	return &SwapHandler{sessions: sessions}
}

// SelectionRequest picks one side of the pair; the other side follows
type SelectionRequest struct {
	FromToken string `json:"fromToken" validate:"omitempty,oneof=TokenA TokenB"`
	ToToken   string `json:"toToken" validate:"omitempty,oneof=TokenA TokenB"`
}

// SwapRequest is the swap form input
type SwapRequest struct {
	Amount string `json:"amount"`
}

// SubmitResponse carries the status of the submitted form
type SubmitResponse struct {
	Status entities.Status `json:"status"`
	Form   any             `json:"form,omitempty"`
}

// Select handles PUT /api/v1/sessions/{id}/swap/selection
func (h *SwapHandler) Select(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	var req SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FromToken == "" && req.ToToken == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "fromToken or toToken is required")
		return
	}

	var (
		snap services.SwapSnapshot
		err  error
	)
	if req.FromToken != "" {
		snap, err = session.Swap.SelectFrom(entities.TokenSymbol(req.FromToken))
	} else {
		snap, err = session.Swap.SelectTo(entities.TokenSymbol(req.ToToken))
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Submit handles POST /api/v1/sessions/{id}/swap
func (h *SwapHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	var req SwapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := session.Swap.Submit(r.Context(), req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Status: status, Form: session.Swap.Snapshot()})
}
