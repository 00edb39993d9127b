package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/example/brokerage-ledger/internal/ledger"
)

// LedgerReader is the read-only slice of the engine the HTTP surface needs.
// Commands go through gRPC; this router never writes.
type LedgerReader interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetPositions(ctx context.Context, accountID string) ([]ledger.Position, error)
	GetPosition(ctx context.Context, accountID, symbol string) (ledger.Position, error)
	GetHistory(ctx context.Context, accountID string) ([]ledger.Entry, error)
}

type Dependencies struct {
	Logger *slog.Logger
	Ledger LedgerReader
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CorrelationID)
	r.Use(RequestLogger(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1/accounts/{accountID}", func(r chi.Router) {
		r.Get("/balance", handleBalance(deps))
		r.Get("/positions", handlePositions(deps))
		r.Get("/positions/{symbol}", handlePosition(deps))
		r.Get("/history", handleHistory(deps))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return r
}
