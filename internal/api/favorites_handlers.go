package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/paperdesk/gostock/internal/market"
)

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	accountID := requestAccountID(r)
	if accountID == "" {
		writeError(w, 401, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	favorites, err := s.store.ListFavorites(ctx, accountID)
	if err != nil {
		s.log.Errorf("list favorites: %v", err)
		writeError(w, 500, "favorites lookup failed")
		return
	}
	if favorites == nil {
		favorites = []string{}
	}
	writeJSON(w, 200, favorites)
}

func (s *Server) handleFavoriteAdd(w http.ResponseWriter, r *http.Request) {
	accountID := requestAccountID(r)
	if accountID == "" {
		writeError(w, 401, "not authenticated")
		return
	}

	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json body")
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if !market.Listed(symbol) {
		writeError(w, 400, "invalid stock symbol")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.store.AddFavorite(ctx, accountID, symbol); err != nil {
		s.log.Errorf("add favorite: %v", err)
		writeError(w, 500, "failed to add favorite")
		return
	}
	writeJSON(w, 200, map[string]bool{"ok": true})
}

func (s *Server) handleFavoriteRemove(w http.ResponseWriter, r *http.Request) {
	accountID := requestAccountID(r)
	if accountID == "" {
		writeError(w, 401, "not authenticated")
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(pathParam(r, "symbol")))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.store.RemoveFavorite(ctx, accountID, symbol); err != nil {
		s.log.Errorf("remove favorite: %v", err)
		writeError(w, 500, "failed to remove favorite")
		return
	}
	writeJSON(w, 200, map[string]bool{"ok": true})
}
