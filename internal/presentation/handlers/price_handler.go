package handlers

import (
	"net/http"
	"time"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/domain/services"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

type PriceResponse struct {
	Token    entities.TokenSymbol `json:"token"`
	Unit     string               `json:"unit"`
	Price    string               `json:"price"`
	Display  string               `json:"display"`
	Resolved bool                 `json:"resolved"`
}

type PricesResponse struct {
	PriceOfA  PriceResponse `json:"priceOfA"`
	PriceOfB  PriceResponse `json:"priceOfB"`
	UpdatedAt string        `json:"updatedAt"`
}

// GetPrices handles GET /api/v1/prices
func (h *PriceHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	board := h.priceService.GetPrices(r.Context())

	writeJSON(w, http.StatusOK, PricesResponse{
		PriceOfA:  toPriceResponse(board.PriceOfA),
		PriceOfB:  toPriceResponse(board.PriceOfB),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func toPriceResponse(q entities.PriceQuote) PriceResponse {
	price := "0"
	if q.Resolved && q.Price != nil {
		price = q.Price.String()
	}
	return PriceResponse{
		Token:    q.Token,
		Unit:     q.Unit,
		Price:    price,
		Display:  q.Display(),
		Resolved: q.Resolved,
	}
}
