package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/engine"
	"github.com/rocketscienceinc/tictactoe-duel/internal/protocol"
)

// Connection is one websocket client. Its ID is the participant identity inside sessions.
type Connection struct {
	ID string

	conn   *websocket.Conn
	send   chan []byte
	config Config
	logger *slog.Logger
}

func newConnection(logger *slog.Logger, conn *websocket.Conn, config Config) *Connection {
	id := uuid.NewString()

	return &Connection{
		ID:     id,
		conn:   conn,
		send:   make(chan []byte, config.SendBuffer),
		config: config,
		logger: logger.With("conn_id", id),
	}
}

func (that *Connection) close() {
	if err := that.conn.Close(); err != nil {
		that.logger.Debug("Connection already closed", "error", err)
	}
}

// writePump - the only writer of the socket.
func (that *Connection) writePump() {
	ticker := time.NewTicker(that.config.PingInterval)
	defer func() {
		ticker.Stop()
		that.close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.config.WriteTimeout))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				that.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.config.WriteTimeout))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.logger.Debug("Failed to send ping", "error", err)
				return
			}
		}
	}
}

// readPump - decodes inbound frames and forwards them to the engine until the socket fails.
func (that *Connection) readPump(ctx context.Context, events submitter) {
	that.conn.SetReadLimit(that.config.MaxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(that.config.ReadTimeout))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(that.config.ReadTimeout))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				that.logger.Warn("Unexpected websocket close", "error", err)
			}

			return
		}

		_ = that.conn.SetReadDeadline(time.Now().Add(that.config.ReadTimeout))

		action, err := protocol.Decode(data)
		if err != nil {
			that.logger.Warn("Dropped malformed message", "error", err)
			continue
		}

		if err = events.Submit(ctx, engine.ActionReceived{ConnID: that.ID, Action: action}); err != nil {
			that.logger.Error("Failed to submit action", "action", action.Action(), "error", err)
			return
		}
	}
}
