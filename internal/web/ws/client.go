package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/services/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Command is the wire format for every client-to-server message
type Command struct {
	Action      string `json:"action"`
	Name        string `json:"name,omitempty"`
	KeepIndices []int  `json:"keepIndices,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Client is one connected controller or display device
type Client struct {
	hub         *Hub
	controller  session.ControllerInterface
	conn        *websocket.Conn
	send        chan []byte
	connID      model.ConnectionID
	key         string
	logger      *slog.Logger
	connectedAt time.Time
}

// readPump dispatches inbound commands until the connection drops, then
// reports the disconnect to the session
func (c *Client) readPump() {
	defer func() {
		if err := c.controller.Disconnect(context.Background(), c.connID); err != nil {
			c.logger.Warn("disconnect not recorded", slog.String("error", err.Error()))
		}
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}
		c.dispatch(cmd)
	}
}

// writePump forwards hub messages to the connection and keeps it alive
// with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one command to the session controller. Failures go
// back to this client only; other clients see nothing.
func (c *Client) dispatch(cmd Command) {
	ctx := context.Background()

	switch cmd.Action {
	case "join":
		player, err := c.controller.Join(ctx, c.key, c.connID, cmd.Name)
		if err != nil {
			c.sendError(err)
			return
		}
		c.reply(Envelope{
			Type:     "joined",
			PlayerID: player.ID,
			Data:     c.controller.ClientState(c.key),
		})

	case "ready":
		c.asPlayer(func(playerID model.PlayerID) error {
			return c.controller.Ready(ctx, playerID)
		})

	case "roll":
		c.asPlayer(func(playerID model.PlayerID) error {
			return c.controller.Roll(ctx, playerID, cmd.KeepIndices)
		})

	case "score":
		c.asPlayer(func(playerID model.PlayerID) error {
			return c.controller.Score(ctx, playerID, model.Category(cmd.Category))
		})

	case "new_game":
		if err := c.controller.NewGame(ctx); err != nil {
			c.sendError(err)
		}

	case "get_state":
		c.reply(Envelope{
			Type: "game_state",
			Data: c.controller.ClientState(c.key),
		})

	default:
		c.logger.Warn("unknown ws action", slog.String("action", cmd.Action))
	}
}

// asPlayer resolves this connection to its player before running the
// command
func (c *Client) asPlayer(run func(model.PlayerID) error) {
	playerID, ok := c.controller.PlayerForConnection(c.connID)
	if !ok {
		c.sendError(model.ErrUnknownPlayer)
		return
	}
	if err := run(playerID); err != nil {
		c.sendError(err)
	}
}

// reply sends a message to this client only
func (c *Client) reply(env Envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("ws marshal failed", slog.String("error", err.Error()))
		return
	}
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("ws reply dropped - client buffer full",
			slog.String("connection_id", string(c.connID)))
	}
}

func (c *Client) sendError(err error) {
	c.reply(Envelope{
		Type: "error",
		Data: errorBody(err),
	})
}
