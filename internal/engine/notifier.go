package engine

import (
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/protocol"
)

// Notifier delivers outbound events. Implementations must not block the caller.
type Notifier interface {
	Unicast(connID string, event protocol.Outbound)
	Broadcast(sessionID string, connIDs []string, event protocol.Outbound)
}

// Recorder receives the result of every finished round. Implementations must not block the caller.
type Recorder interface {
	Record(result entity.Result)
}

type nopRecorder struct{}

func (nopRecorder) Record(entity.Result) {}
