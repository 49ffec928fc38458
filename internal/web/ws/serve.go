package ws

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/services/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Controllers live on the same LAN and join via QR link
		return true
	},
}

// newConnectionID generates a random connection identifier
func newConnectionID() model.ConnectionID {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return model.ConnectionID(hex.EncodeToString(buf))
}

// Serve upgrades the request to a websocket and runs the client pumps.
// The device's recognition key is derived from its network origin; the
// session core never inspects network details itself.
func Serve(hub *Hub, controller session.ControllerInterface, recognitionKey func(*http.Request) string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
			return
		}

		client := &Client{
			hub:         hub,
			controller:  controller,
			conn:        conn,
			send:        make(chan []byte, sendBufferSize),
			connID:      newConnectionID(),
			key:         recognitionKey(r),
			logger:      logger,
			connectedAt: time.Now(),
		}

		hub.Register(client)

		// Every connection starts with the current state so refreshed
		// devices sync immediately
		client.reply(Envelope{
			Type: "game_state",
			Data: controller.ClientState(client.key),
		})

		go client.writePump()
		client.readPump()
	}
}
