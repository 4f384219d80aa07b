package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paperdesk/gostock/internal/market"
)

type stockResponse struct {
	market.Stock
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Change        decimal.Decimal `json:"change"`
	ChangePct     decimal.Decimal `json:"changePct"`
}

func (s *Server) stockResponseFor(stock market.Stock) stockResponse {
	resp := stockResponse{Stock: stock}
	if q, ok := s.board.Quote(stock.Symbol); ok {
		resp.Price = q.Price
		resp.PreviousClose = q.PreviousClose
		resp.Change = q.Change()
		resp.ChangePct = q.ChangePct()
	}
	return resp
}

func (s *Server) handleStocksList(w http.ResponseWriter, r *http.Request) {
	out := make([]stockResponse, 0, len(market.Catalog))
	for _, stock := range market.Catalog {
		out = append(out, s.stockResponseFor(stock))
	}
	writeJSON(w, 200, out)
}

func (s *Server) handleStockGet(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(pathParam(r, "symbol")))
	stock, ok := market.Lookup(symbol)
	if !ok {
		writeError(w, 404, "stock not found")
		return
	}
	writeJSON(w, 200, s.stockResponseFor(stock))
}
