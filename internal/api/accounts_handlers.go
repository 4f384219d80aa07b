package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperdesk/gostock/internal/ledger"
)

type createAccountRequest struct {
	ID             string `json:"id"`
	OpeningBalance string `json:"opening_balance"`
}

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json body")
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	opening := s.cfg.OpeningBalance
	if req.OpeningBalance != "" {
		parsed, err := decimal.NewFromString(req.OpeningBalance)
		if err != nil || parsed.IsNegative() {
			writeError(w, 400, "opening_balance must be a non-negative amount")
			return
		}
		opening = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	account, err := s.store.CreateAccount(ctx, id, opening)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			writeError(w, 409, "account already exists")
			return
		}
		s.log.Errorf("create account: %v", err)
		writeError(w, 500, "account creation failed")
		return
	}
	writeJSON(w, 201, account)
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	accountID := strings.TrimSpace(pathParam(r, "accountID"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.store.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			writeError(w, 404, "account not found")
			return
		}
		s.log.Errorf("delete account: %v", err)
		writeError(w, 500, "account deletion failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccountView(w http.ResponseWriter, r *http.Request) {
	accountID := requestAccountID(r)
	if accountID == "" {
		writeError(w, 401, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	snapshot, err := s.projector.Project(ctx, accountID)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			writeError(w, 404, "account not found")
			return
		}
		s.log.Errorf("project account %s: %v", accountID, err)
		writeError(w, 500, "account lookup failed")
		return
	}
	writeJSON(w, 200, snapshot)
}
