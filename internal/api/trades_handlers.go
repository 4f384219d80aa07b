package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paperdesk/gostock/internal/engine"
	"github.com/paperdesk/gostock/internal/ledger"
)

type tradeRequest struct {
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Quantity      int64  `json:"quantity"`
	ClientOrderID string `json:"client_order_id"`
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	accountID := requestAccountID(r)
	if accountID == "" {
		writeError(w, 401, "not authenticated")
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json body")
		return
	}
	req.ClientOrderID = strings.TrimSpace(req.ClientOrderID)
	if req.ClientOrderID != "" {
		if _, err := uuid.Parse(req.ClientOrderID); err != nil {
			writeError(w, 400, "client_order_id must be a UUID")
			return
		}
	}

	order := engine.Order{
		AccountID:     accountID,
		Side:          ledger.Side(strings.ToUpper(strings.TrimSpace(req.Side))),
		Symbol:        strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Quantity:      req.Quantity,
		ClientOrderID: req.ClientOrderID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	receipt, err := s.engine.Execute(ctx, order)
	if err != nil {
		s.writeTradeError(w, order, err)
		return
	}
	writeJSON(w, 200, receipt)
}

// writeTradeError maps the engine's closed failure set onto status codes:
// validation and business-rule failures are 400, a missing account is 404,
// an unpriced symbol is 503 (retryable), storage faults are 500.
func (s *Server) writeTradeError(w http.ResponseWriter, order engine.Order, err error) {
	var fundsErr *engine.InsufficientFundsError
	var sharesErr *engine.InsufficientSharesError
	var storageErr *engine.StorageError
	switch {
	case errors.Is(err, engine.ErrUnknownSymbol):
		writeError(w, 400, "invalid stock symbol")
	case errors.Is(err, engine.ErrInvalidSide):
		writeError(w, 400, "side must be BUY or SELL")
	case errors.Is(err, engine.ErrInvalidQuantity):
		writeError(w, 400, fmt.Sprintf("quantity must be between 1 and %d", s.engine.MaxOrderQty()))
	case errors.Is(err, engine.ErrPriceUnavailable):
		writeError(w, 503, "price unavailable, market may be loading")
	case errors.As(err, &fundsErr), errors.As(err, &sharesErr):
		writeError(w, 400, err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound):
		writeError(w, 404, "account not found")
	case errors.As(err, &storageErr):
		s.log.Errorf("trade %s %s x%d for %s: %v", order.Side, order.Symbol, order.Quantity, order.AccountID, err)
		writeError(w, 500, "transaction failed")
	default:
		s.log.Errorf("trade %s %s x%d for %s: unexpected: %v", order.Side, order.Symbol, order.Quantity, order.AccountID, err)
		writeError(w, 500, "transaction failed")
	}
}
