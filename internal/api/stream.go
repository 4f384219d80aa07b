package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/paperdesk/gostock/internal/market"
)

const (
	streamPingInterval = 10 * time.Second
	streamWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The service sits behind the fronting proxy, which owns origin policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type streamMessage struct {
	Type   string         `json:"type"` // "snapshot" | "quote"
	Quotes []market.Quote `json:"quotes,omitempty"`
	Quote  *market.Quote  `json:"quote,omitempty"`
}

// handleQuoteStream pushes the current quote board on connect, then every
// accepted feed update, over a websocket.
func (s *Server) handleQuoteStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("quote stream upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates := s.board.Subscribe()
	defer s.board.Unsubscribe(updates)

	// Reader goroutine: we never expect client messages, but reading is
	// required to process close frames and pongs.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(streamMessage{Type: "snapshot", Quotes: s.board.Snapshot()}); err != nil {
		return
	}

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case q, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(streamMessage{Type: "quote", Quote: &q}); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
