package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/brokerage-ledger/internal/ledger"
)

// Presentation types. Monetary values are rounded to 2 decimal places here
// and nowhere earlier; the engine computes at full precision.

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type positionResponse struct {
	Symbol         string `json:"symbol"`
	Shares         string `json:"shares"`
	InvestedAmount string `json:"invested_amount"`
}

type entryResponse struct {
	ID        string `json:"id"`
	Sequence  uint64 `json:"sequence"`
	Kind      string `json:"kind"`
	Symbol    string `json:"symbol,omitempty"`
	Shares    string `json:"shares,omitempty"`
	Price     string `json:"price,omitempty"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

func handleBalance(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountID")

		balance, err := deps.Ledger.GetBalance(r.Context(), accountID)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, balanceResponse{
			AccountID: accountID,
			Balance:   balance.StringFixed(2),
		})
	}
}

func handlePositions(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountID")

		positions, err := deps.Ledger.GetPositions(r.Context(), accountID)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		out := make([]positionResponse, 0, len(positions))
		for _, p := range positions {
			out = append(out, renderPosition(p))
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

func handlePosition(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountID")
		symbol := chi.URLParam(r, "symbol")

		position, err := deps.Ledger.GetPosition(r.Context(), accountID, symbol)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, renderPosition(position))
	}
}

func handleHistory(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountID")

		entries, err := deps.Ledger.GetHistory(r.Context(), accountID)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			resp := entryResponse{
				ID:        e.ID,
				Sequence:  e.Sequence,
				Kind:      string(e.Kind),
				Symbol:    e.Symbol,
				Amount:    e.Amount.StringFixed(2),
				Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			}
			if e.Kind == ledger.KindBuy || e.Kind == ledger.KindSell {
				resp.Shares = e.Shares.String()
				resp.Price = e.Price.StringFixed(2)
			}
			out = append(out, resp)
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

func renderPosition(p ledger.Position) positionResponse {
	return positionResponse{
		Symbol:         p.Symbol,
		Shares:         p.Shares.String(),
		InvestedAmount: p.InvestedAmount.StringFixed(2),
	}
}

func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not_found")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal_error")
}
