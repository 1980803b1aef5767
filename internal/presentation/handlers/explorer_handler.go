package handlers

import (
	"net/http"
	"strconv"

	"github.com/bimakw/simple-dex/internal/domain/services"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

// ExplorerHandler serves the read-only views: contracts, account,
// transaction history and navigation links
type ExplorerHandler struct {
	resolver dex.ContractResolver
	accounts *services.AccountService
	history  *services.HistoryService
}

func NewExplorerHandler(resolver dex.ContractResolver, accounts *services.AccountService, history *services.HistoryService) *ExplorerHandler {
	return &ExplorerHandler{
		resolver: resolver,
		accounts: accounts,
		history:  history,
	}
}

// Contracts handles GET /api/v1/contracts
func (h *ExplorerHandler) Contracts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"contracts": h.resolver.Statuses(r.Context()),
	})
}

// Account handles GET /api/v1/account
func (h *ExplorerHandler) Account(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Account(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Transactions handles GET /api/v1/transactions?limit=N
func (h *ExplorerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	txs, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "journal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
	})
}

// Links handles GET /api/v1/links
func (h *ExplorerHandler) Links(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"links": h.history.Links(),
	})
}
