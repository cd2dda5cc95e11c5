package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/protocol"
)

// ConnectionManager tracks live connections and delivers outbound events to them.
// Delivery never blocks: a connection whose send buffer is full is closed.
type ConnectionManager struct {
	logger *slog.Logger

	mu          sync.RWMutex
	connections map[string]*Connection
}

func NewConnectionManager(logger *slog.Logger) *ConnectionManager {
	return &ConnectionManager{
		logger:      logger.With("component", "connection_manager"),
		connections: make(map[string]*Connection),
	}
}

// Unicast - sends event to a single connection.
func (that *ConnectionManager) Unicast(connID string, event protocol.Outbound) {
	data, err := protocol.Encode(event)
	if err != nil {
		that.logger.Error("Failed to encode event", "event", event.Event(), "error", err)
		return
	}

	that.deliver(data, connID)
}

// Broadcast - sends event to every listed member of a session.
func (that *ConnectionManager) Broadcast(sessionID string, connIDs []string, event protocol.Outbound) {
	data, err := protocol.Encode(event)
	if err != nil {
		that.logger.Error("Failed to encode event", "event", event.Event(), "session_id", sessionID, "error", err)
		return
	}

	delivered := that.deliver(data, connIDs...)

	that.logger.Debug("Event broadcasted",
		"event", event.Event(),
		"session_id", sessionID,
		"connections", delivered,
	)
}

func (that *ConnectionManager) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.connections)
}

// CloseAll - drops every live connection.
func (that *ConnectionManager) CloseAll() {
	that.mu.RLock()
	connections := make([]*Connection, 0, len(that.connections))
	for _, conn := range that.connections {
		connections = append(connections, conn)
	}
	that.mu.RUnlock()

	for _, conn := range connections {
		conn.close()
	}
}

func (that *ConnectionManager) deliver(data []byte, connIDs ...string) int {
	var (
		delivered int
		slow      []*Connection
	)

	that.mu.RLock()
	for _, connID := range connIDs {
		conn, ok := that.connections[connID]
		if !ok {
			continue
		}

		select {
		case conn.send <- data:
			delivered++
		default:
			slow = append(slow, conn)
		}
	}
	that.mu.RUnlock()

	for _, conn := range slow {
		that.logger.Warn("Connection send buffer full, closing connection", "conn_id", conn.ID)
		conn.close()
	}

	return delivered
}

func (that *ConnectionManager) register(conn *Connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections[conn.ID] = conn

	that.logger.Debug("Connection registered", "conn_id", conn.ID, "total_connections", len(that.connections))
}

// unregister - forgets conn and closes its send channel. Safe to call more than once.
func (that *ConnectionManager) unregister(conn *Connection) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.connections[conn.ID]; !ok || current != conn {
		return false
	}

	delete(that.connections, conn.ID)
	close(conn.send)

	return true
}
