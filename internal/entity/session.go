package entity

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
	StatusPaused   Status = "paused"
)

type EndReason string

const (
	EndReasonNormal    EndReason = "normal"
	EndReasonTimeout   EndReason = "timeout"
	EndReasonSurrender EndReason = "surrender"
)

const (
	WinnerDraw = "draw"

	MaxParticipants = 2
)

var ErrInvalidCell = errors.New("invalid cell index")

// Session is one match between two connections.
type Session struct {
	ID           string
	Board        Board
	Participants []string
	SymbolOf     map[string]Symbol
	TurnHolder   string
	Starter      string
	Status       Status
	Winner       string
	WinningLine  *Line
	EndReason    EndReason
	Round        int
}

func NewSession(id, creator string) *Session {
	return &Session{
		ID:           id,
		Participants: []string{creator},
		SymbolOf:     map[string]Symbol{creator: SymbolX},
		TurnHolder:   creator,
		Starter:      creator,
		Status:       StatusWaiting,
		Round:        1,
	}
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsPaused() bool {
	return that.Status == StatusPaused
}

func (that *Session) IsParticipant(connID string) bool {
	return slices.Contains(that.Participants, connID)
}

// OpponentOf - returns the other seated participant, if any.
func (that *Session) OpponentOf(connID string) (string, bool) {
	for _, participant := range that.Participants {
		if participant != connID {
			return participant, true
		}
	}

	return "", false
}

// SymbolMap - returns a copy of the connection to symbol assignment.
func (that *Session) SymbolMap() map[string]Symbol {
	symbols := make(map[string]Symbol, len(that.SymbolOf))
	for connID, symbol := range that.SymbolOf {
		symbols[connID] = symbol
	}

	return symbols
}

// Join - seats the second participant as O.
func (that *Session) Join(connID string) error {
	if !that.IsWaiting() || len(that.Participants) >= MaxParticipants || that.IsParticipant(connID) {
		return apperror.ErrSessionFull
	}

	that.Participants = append(that.Participants, connID)
	that.SymbolOf[connID] = SymbolO
	that.Status = StatusPlaying

	return nil
}

// MakeMove - places the turn holder's symbol and passes the turn.
// The session is left untouched when an error is returned.
func (that *Session) MakeMove(connID string, cell int) (Evaluation, error) {
	if !that.IsPlaying() {
		return Evaluation{}, apperror.ErrSessionNotPlaying
	}

	if that.TurnHolder != connID {
		return Evaluation{}, apperror.ErrWrongTurn
	}

	if cell < 0 || cell >= BoardSize {
		return Evaluation{}, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return Evaluation{}, apperror.ErrCellOccupied
	}

	that.Board[cell] = that.SymbolOf[connID]

	if opponent, ok := that.OpponentOf(connID); ok {
		that.TurnHolder = opponent
	}

	result := Evaluate(that.Board)
	switch result.Outcome {
	case OutcomeWin:
		that.finish(string(result.Winner), result.Line, EndReasonNormal)
	case OutcomeDraw:
		that.finish(WinnerDraw, nil, EndReasonNormal)
	case OutcomeNone:
	}

	return result, nil
}

// TimeOut - ends the round in favour of the opponent when connID still holds the turn.
func (that *Session) TimeOut(connID string) (Symbol, bool) {
	if !that.IsPlaying() || that.TurnHolder != connID {
		return EmptyCell, false
	}

	return that.forfeit(connID, EndReasonTimeout)
}

// Surrender - ends the round in favour of the opponent. No-op without an opponent or after the round ended:
// a finished round already has a winner and conceding it again must not overwrite that result.
func (that *Session) Surrender(connID string) (Symbol, bool) {
	if that.IsFinished() || !that.IsParticipant(connID) {
		return EmptyCell, false
	}

	return that.forfeit(connID, EndReasonSurrender)
}

// Rematch - clears the board and hands the opening move to whoever did not open the last round.
func (that *Session) Rematch() error {
	if len(that.Participants) < MaxParticipants {
		return apperror.ErrSessionNotPlaying
	}

	next, _ := that.OpponentOf(that.Starter)

	that.Board = Board{}
	that.Starter = next
	that.TurnHolder = next
	that.Status = StatusPlaying
	that.Winner = ""
	that.WinningLine = nil
	that.EndReason = ""
	that.Round++

	return nil
}

// Leave - unseats connID. A remaining participant finds the session paused.
func (that *Session) Leave(connID string) (string, bool) {
	idx := slices.Index(that.Participants, connID)
	if idx < 0 {
		return "", false
	}

	opponent, hasOpponent := that.OpponentOf(connID)

	that.Participants = slices.Delete(that.Participants, idx, idx+1)
	delete(that.SymbolOf, connID)

	if hasOpponent {
		that.Status = StatusPaused
	}

	return opponent, hasOpponent
}

func (that *Session) IsEmpty() bool {
	return len(that.Participants) == 0
}

// Result - summary of a finished round.
func (that *Session) Result(finishedAt time.Time) Result {
	return Result{
		SessionID:  that.ID,
		Round:      that.Round,
		Winner:     that.Winner,
		Reason:     that.EndReason,
		Line:       that.WinningLine,
		Board:      that.Board,
		FinishedAt: finishedAt,
	}
}

func (that *Session) forfeit(loser string, reason EndReason) (Symbol, bool) {
	opponent, ok := that.OpponentOf(loser)
	if !ok {
		return EmptyCell, false
	}

	winner := that.SymbolOf[opponent]
	that.finish(string(winner), nil, reason)

	return winner, true
}

func (that *Session) finish(winner string, line *Line, reason EndReason) {
	that.Status = StatusFinished
	that.Winner = winner
	that.WinningLine = line
	that.EndReason = reason
}
