package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/domain/services"
)

// LiquidityHandler drives the approve, add-liquidity and remove-liquidity forms
type LiquidityHandler struct {
	sessions *services.SessionService
}

func NewLiquidityHandler(sessions *services.SessionService) *LiquidityHandler {
	return &LiquidityHandler{sessions: sessions}
}

// ApproveRequest is the approve form input for one token
type ApproveRequest struct {
	Amount string `json:"amount"`
}

// LiquidityRequest is the add/remove liquidity form input
type LiquidityRequest struct {
	AmountA string `json:"amountA"`
	AmountB string `json:"amountB"`
}

// Approve handles POST /api/v1/sessions/{id}/approve/{token}
func (h *LiquidityHandler) Approve(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	token := entities.TokenSymbol(chi.URLParam(r, "token"))
	if !token.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_token", "token must be TokenA or TokenB")
		return
	}

	var req ApproveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := session.Approve.Submit(r.Context(), token, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Status: status, Form: session.Approve.Snapshot()})
}

// Add handles POST /api/v1/sessions/{id}/liquidity/add
func (h *LiquidityHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(s *services.Session) *services.LiquidityForm { return s.AddLiquidity })
}

// Remove handles POST /api/v1/sessions/{id}/liquidity/remove
func (h *LiquidityHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(s *services.Session) *services.LiquidityForm { return s.RemoveLiquidity })
}

func (h *LiquidityHandler) submit(w http.ResponseWriter, r *http.Request, form func(*services.Session) *services.LiquidityForm) {
	session, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	var req LiquidityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := form(session).Submit(r.Context(), req.AmountA, req.AmountB)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Status: status})
}
