package protocol

import "github.com/rocketscienceinc/tictactoe-duel/internal/entity"

const (
	EventSessionCreated    = "session-created"
	EventParticipantJoined = "participant-joined"
	EventMoveMade          = "move-made"
	EventSessionEnded      = "session-ended"
	EventSessionReset      = "session-reset"
	EventOpponentLeft      = "opponent-left"
	EventError             = "error"
	EventStatusSnapshot    = "status-snapshot"
)

// Outbound is an event sent to one or both participants. The set of implementations is closed.
type Outbound interface {
	Event() string

	outbound()
}

type SessionCreated struct {
	SessionID        string        `json:"sessionId"`
	Symbol           entity.Symbol `json:"symbol"`
	ParticipantCount int           `json:"participantCount"`
}

type ParticipantJoined struct {
	ParticipantCount int                      `json:"participantCount"`
	TurnHolder       string                   `json:"turnHolder"`
	SymbolMap        map[string]entity.Symbol `json:"symbolMap"`
}

type MoveMade struct {
	Board       entity.Board  `json:"board"`
	TurnHolder  string        `json:"turnHolder"`
	Winner      string        `json:"winner,omitempty"`
	WinningLine *entity.Line  `json:"winningLine,omitempty"`
	Status      entity.Status `json:"status"`
	CellIndex   int           `json:"cellIndex"`
	Symbol      entity.Symbol `json:"symbol"`
}

type SessionEnded struct {
	Winner string           `json:"winner"`
	Reason entity.EndReason `json:"reason"`
}

type SessionReset struct {
	Board      entity.Board  `json:"board"`
	TurnHolder string        `json:"turnHolder"`
	Status     entity.Status `json:"status"`
	Round      int           `json:"round"`
}

type OpponentLeft struct{}

type Error struct {
	Message string `json:"message"`
}

type StatusSnapshot struct {
	SessionID        string                   `json:"sessionId"`
	ParticipantCount int                      `json:"participantCount"`
	TurnHolder       string                   `json:"turnHolder"`
	SymbolMap        map[string]entity.Symbol `json:"symbolMap"`
	Board            entity.Board             `json:"board"`
	Status           entity.Status            `json:"status"`
	Round            int                      `json:"round"`
}

func (SessionCreated) Event() string    { return EventSessionCreated }
func (ParticipantJoined) Event() string { return EventParticipantJoined }
func (MoveMade) Event() string          { return EventMoveMade }
func (SessionEnded) Event() string      { return EventSessionEnded }
func (SessionReset) Event() string      { return EventSessionReset }
func (OpponentLeft) Event() string      { return EventOpponentLeft }
func (Error) Event() string             { return EventError }
func (StatusSnapshot) Event() string    { return EventStatusSnapshot }

func (SessionCreated) outbound()    {}
func (ParticipantJoined) outbound() {}
func (MoveMade) outbound()          {}
func (SessionEnded) outbound()      {}
func (SessionReset) outbound()      {}
func (OpponentLeft) outbound()      {}
func (Error) outbound()             {}
func (StatusSnapshot) outbound()    {}

// Snapshot - the status-snapshot of a session.
func Snapshot(session *entity.Session) StatusSnapshot {
	return StatusSnapshot{
		SessionID:        session.ID,
		ParticipantCount: len(session.Participants),
		TurnHolder:       session.TurnHolder,
		SymbolMap:        session.SymbolMap(),
		Board:            session.Board,
		Status:           session.Status,
		Round:            session.Round,
	}
}
