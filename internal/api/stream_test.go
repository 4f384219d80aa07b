package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/gostock/internal/market"
)

func TestQuoteStream(t *testing.T) {
	env := newTestEnv(t)
	env.setPrice("AAPL", "178.50")

	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/stream/quotes"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	readMessage := func() streamMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg streamMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	snap := readMessage()
	require.Equal(t, "snapshot", snap.Type)
	require.Len(t, snap.Quotes, len(market.Catalog))

	env.board.Set(market.Quote{
		Symbol:    "TSLA",
		Price:     decimal.RequireFromString("242.10"),
		UpdatedAt: time.Now(),
	})

	update := readMessage()
	require.Equal(t, "quote", update.Type)
	require.NotNil(t, update.Quote)
	require.Equal(t, "TSLA", update.Quote.Symbol)
	require.Equal(t, "242.10", update.Quote.Price.StringFixed(2))
}

func TestQuoteStreamRejectsPlainGet(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.srv.Client().Get(env.srv.URL + "/api/stream/quotes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
