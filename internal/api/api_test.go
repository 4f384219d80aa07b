package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/gostock/internal/engine"
	"github.com/paperdesk/gostock/internal/ledger"
	"github.com/paperdesk/gostock/internal/market"
)

type testEnv struct {
	srv   *httptest.Server
	store *ledger.Store
	board *market.Board
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	board := market.NewBoard(time.Minute)
	eng := engine.New(store, board, 0)
	server := New(Config{}, store, eng, board)
	httpSrv := httptest.NewServer(server.Router())
	t.Cleanup(httpSrv.Close)
	return &testEnv{srv: httpSrv, store: store, board: board}
}

func (e *testEnv) setPrice(symbol, price string) {
	e.board.Set(market.Quote{
		Symbol:    symbol,
		Price:     decimal.RequireFromString(price),
		UpdatedAt: time.Now(),
	})
}

func (e *testEnv) do(t *testing.T, method, path, accountID, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if accountID != "" {
		req.Header.Set("X-Account-ID", accountID)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw := map[string]json.RawMessage{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&raw)
	}
	return resp, raw
}

func str(t *testing.T, raw map[string]json.RawMessage, key string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(raw[key], &s), "field %q missing or not a string", key)
	return s
}

func (e *testEnv) createAccount(t *testing.T, id string) {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/api/accounts/", "", `{"id":"`+id+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAccountCreateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/accounts/", "", `{"id":"alice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "alice", str(t, body, "id"))
	require.Equal(t, "10000", str(t, body, "balance"))

	resp, _ = env.do(t, http.MethodPost, "/api/accounts/", "", `{"id":"alice"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/accounts/alice", "", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/accounts/alice", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccountCreateGeneratedIDAndCustomBalance(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/accounts/", "", `{"opening_balance":"2500.50"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, str(t, body, "id"))
	require.Equal(t, "2500.5", str(t, body, "balance"))

	resp, _ = env.do(t, http.MethodPost, "/api/accounts/", "", `{"opening_balance":"-5"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTradeFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "alice")
	env.setPrice("AAPL", "178.50")

	resp, body := env.do(t, http.MethodPost, "/api/trades", "alice",
		`{"symbol":"aapl","side":"buy","quantity":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "BUY", str(t, body, "side"))
	require.Equal(t, "AAPL", str(t, body, "symbol"))
	require.Equal(t, "1785", str(t, body, "total"))

	resp, view := env.do(t, http.MethodGet, "/api/account", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "8215", str(t, view, "balance"))

	var positions []map[string]any
	require.NoError(t, json.Unmarshal(view["positions"], &positions))
	require.Len(t, positions, 1)
	require.Equal(t, "AAPL", positions[0]["symbol"])
	require.EqualValues(t, 10, positions[0]["shares"])

	var txs []map[string]any
	require.NoError(t, json.Unmarshal(view["transactions"], &txs))
	require.Len(t, txs, 1)
}

func TestTradeErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "alice")
	env.setPrice("AAPL", "178.50")

	cases := []struct {
		name       string
		accountID  string
		body       string
		wantStatus int
		wantSubstr string
	}{
		{"no identity", "", `{"symbol":"AAPL","side":"BUY","quantity":1}`, 401, "not authenticated"},
		{"unknown account", "ghost", `{"symbol":"AAPL","side":"BUY","quantity":1}`, 404, "account not found"},
		{"bad json", "alice", `{`, 400, "invalid json body"},
		{"unknown symbol", "alice", `{"symbol":"ZZZZ","side":"BUY","quantity":1}`, 400, "invalid stock symbol"},
		{"bad side", "alice", `{"symbol":"AAPL","side":"HOLD","quantity":1}`, 400, "BUY or SELL"},
		{"zero quantity", "alice", `{"symbol":"AAPL","side":"BUY","quantity":0}`, 400, "between 1 and 10000"},
		{"price unavailable", "alice", `{"symbol":"TSLA","side":"BUY","quantity":1}`, 503, "price unavailable"},
		{"insufficient funds", "alice", `{"symbol":"AAPL","side":"BUY","quantity":100}`, 400, "insufficient funds"},
		{"insufficient shares", "alice", `{"symbol":"AAPL","side":"SELL","quantity":1}`, 400, "insufficient shares"},
		{"bad client order id", "alice", `{"symbol":"AAPL","side":"BUY","quantity":1,"client_order_id":"nope"}`, 400, "UUID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/trades", tc.accountID, tc.body)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			require.Contains(t, str(t, body, "error"), tc.wantSubstr)
		})
	}
}

func TestTradeIdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "alice")
	env.setPrice("AAPL", "100.00")

	order := `{"symbol":"AAPL","side":"BUY","quantity":2,"client_order_id":"3f9c8e8a-6f1f-4a36-9e61-333333333333"}`
	resp, _ := env.do(t, http.MethodPost, "/api/trades", "alice", order)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/trades", "alice", order)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var replayed bool
	require.NoError(t, json.Unmarshal(body["replayed"], &replayed))
	require.True(t, replayed)

	resp, view := env.do(t, http.MethodGet, "/api/account", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "9800", str(t, view, "balance"))
}

func TestStocksEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.setPrice("AAPL", "178.50")

	resp, err := env.srv.Client().Get(env.srv.URL + "/api/stocks/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, len(market.Catalog))

	resp2, body := env.do(t, http.MethodGet, "/api/stocks/aapl", "", "")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	require.Equal(t, "AAPL", str(t, body, "symbol"))
	require.Equal(t, "178.5", str(t, body, "price"))

	resp3, _ := env.do(t, http.MethodGet, "/api/stocks/ZZZZ", "", "")
	require.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestFavoritesEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "alice")

	resp, _ := env.do(t, http.MethodGet, "/api/favorites/", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/favorites/", "alice", `{"symbol":"tsla"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/favorites/", "alice", `{"symbol":"ZZZZ"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	listFavorites := func() []string {
		req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/api/favorites/", nil)
		require.NoError(t, err)
		req.Header.Set("X-Account-ID", "alice")
		resp, err := env.srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var favs []string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&favs))
		return favs
	}
	require.Equal(t, []string{"TSLA"}, listFavorites())

	resp, _ = env.do(t, http.MethodDelete, "/api/favorites/TSLA", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, listFavorites())
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.srv.Client().Get(env.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
