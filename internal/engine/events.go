package engine

import (
	"github.com/rocketscienceinc/tictactoe-duel/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-duel/internal/timer"
)

// Event is one unit of work for the engine loop. The set of implementations is closed.
type Event interface {
	event()
}

// ActionReceived - a validated action sent by a connection.
type ActionReceived struct {
	ConnID string
	Action protocol.Inbound
}

// Disconnected - the connection is gone for good.
type Disconnected struct {
	ConnID string
}

type turnExpired struct {
	expiry timer.Expiry
}

func (ActionReceived) event() {}
func (Disconnected) event()   {}
func (turnExpired) event()    {}
