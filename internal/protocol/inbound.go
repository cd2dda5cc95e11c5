package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	ActionCreateSession = "create-session"
	ActionJoinSession   = "join-session"
	ActionMove          = "move"
	ActionPlayAgain     = "play-again"
	ActionSurrender     = "surrender"
	ActionGetStatus     = "get-status"
)

// Inbound is an action sent by a connection. The set of implementations is closed.
type Inbound interface {
	Action() string
	Validate() error

	inbound()
}

type CreateSession struct{}

type JoinSession struct {
	SessionID string `json:"sessionId"`
}

type Move struct {
	SessionID string `json:"sessionId"`
	CellIndex *int   `json:"cellIndex"`
}

type PlayAgain struct {
	SessionID string `json:"sessionId"`
}

type Surrender struct {
	SessionID string `json:"sessionId"`
}

type GetStatus struct {
	SessionID string `json:"sessionId"`
}

func (CreateSession) Action() string { return ActionCreateSession }
func (JoinSession) Action() string   { return ActionJoinSession }
func (Move) Action() string          { return ActionMove }
func (PlayAgain) Action() string     { return ActionPlayAgain }
func (Surrender) Action() string     { return ActionSurrender }
func (GetStatus) Action() string     { return ActionGetStatus }

func (CreateSession) inbound() {}
func (JoinSession) inbound()   {}
func (Move) inbound()          {}
func (PlayAgain) inbound()     {}
func (Surrender) inbound()     {}
func (GetStatus) inbound()     {}

func (CreateSession) Validate() error { return nil }

func (that JoinSession) Validate() error { return requireSessionID(that.SessionID) }
func (that PlayAgain) Validate() error   { return requireSessionID(that.SessionID) }
func (that Surrender) Validate() error   { return requireSessionID(that.SessionID) }
func (that GetStatus) Validate() error   { return requireSessionID(that.SessionID) }

func (that Move) Validate() error {
	if err := requireSessionID(that.SessionID); err != nil {
		return err
	}

	if that.CellIndex == nil {
		return fmt.Errorf("%w: cellIndex is required", apperror.ErrInvalidPayload)
	}

	if *that.CellIndex < 0 || *that.CellIndex >= entity.BoardSize {
		return fmt.Errorf("%w: cellIndex %d is out of range", apperror.ErrInvalidPayload, *that.CellIndex)
	}

	return nil
}

// Cell - the validated cell index.
func (that Move) Cell() int {
	if that.CellIndex == nil {
		return -1
	}

	return *that.CellIndex
}

// SessionOf - the session an action addresses, empty for create-session.
func SessionOf(action Inbound) string {
	switch a := action.(type) {
	case JoinSession:
		return a.SessionID
	case Move:
		return a.SessionID
	case PlayAgain:
		return a.SessionID
	case Surrender:
		return a.SessionID
	case GetStatus:
		return a.SessionID
	default:
		return ""
	}
}

func requireSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: sessionId is required", apperror.ErrInvalidPayload)
	}

	return nil
}

func decode[T Inbound](payload json.RawMessage) (Inbound, error) {
	var action T

	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &action); err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
		}
	}

	if err := action.Validate(); err != nil {
		return nil, err
	}

	return action, nil
}

type decoder func(json.RawMessage) (Inbound, error)

var decoders = map[string]decoder{
	ActionCreateSession: decode[CreateSession],
	ActionJoinSession:   decode[JoinSession],
	ActionMove:          decode[Move],
	ActionPlayAgain:     decode[PlayAgain],
	ActionSurrender:     decode[Surrender],
	ActionGetStatus:     decode[GetStatus],
}

// Decode - parses an envelope into a validated inbound action.
func Decode(data []byte) (Inbound, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	decodeAction, ok := decoders[msg.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, msg.Action)
	}

	return decodeAction(msg.Payload)
}
