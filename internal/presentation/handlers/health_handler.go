package handlers

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	ChainID  uint64 `json:"chainId"`
	Sessions int    `json:"sessions"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version  string
	chainID  uint64
	sessions func() int
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, chainID uint64, sessions func() int) *HealthHandler {
	return &HealthHandler{version: version, chainID: chainID, sessions: sessions}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		ChainID: h.chainID,
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions()
	}
	writeJSON(w, http.StatusOK, resp)
}
