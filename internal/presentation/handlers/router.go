package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bimakw/simple-dex/internal/domain/services"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

// ReadTimeout bounds the read-only endpoints. Form submissions wait for
// their receipt and are bounded by the confirmation timeout instead.
const ReadTimeout = 30 * time.Second

// RouterDeps is everything the HTTP API is built from
type RouterDeps struct {
	Version  string
	ChainID  uint64
	Sessions *services.SessionService
	Prices   *services.PriceService
	Accounts *services.AccountService
	History  *services.HistoryService
	Resolver dex.ContractResolver
	Logger   *zap.Logger
}

// NewRouter wires the HTTP API
func NewRouter(d RouterDeps) http.Handler {
	health := NewHealthHandler(d.Version, d.ChainID, d.Sessions.Count)
	sessions := NewSessionHandler(d.Sessions)
	swap := NewSwapHandler(d.Sessions)
	liquidity := NewLiquidityHandler(d.Sessions)
	prices := NewPriceHandler(d.Prices)
	explorer := NewExplorerHandler(d.Resolver, d.Accounts, d.History)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(d.Logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(ReadTimeout))
			r.Get("/prices", prices.GetPrices)
			r.Get("/contracts", explorer.Contracts)
			r.Get("/account", explorer.Account)
			r.Get("/transactions", explorer.Transactions)
			r.Get("/links", explorer.Links)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessions.Get)
				r.Delete("/", sessions.Delete)
				r.Put("/swap/selection", swap.Select)
				r.Post("/swap", swap.Submit)
				r.Post("/approve/{token}", liquidity.Approve)
				r.Post("/liquidity/add", liquidity.Add)
				r.Post("/liquidity/remove", liquidity.Remove)
			})
		})
	})

	return r
}
