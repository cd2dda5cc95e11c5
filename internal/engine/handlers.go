package engine

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-duel/internal/timer"
)

func (that *Engine) handleAction(event ActionReceived) {
	log := that.logger.With("method", "handleAction", "action", event.Action.Action(), "conn_id", event.ConnID)

	var err error

	switch action := event.Action.(type) {
	case protocol.CreateSession:
		err = that.createSession(event.ConnID)
	case protocol.JoinSession:
		err = that.joinSession(event.ConnID, action.SessionID)
	case protocol.Move:
		err = that.move(event.ConnID, action.SessionID, action.Cell())
	case protocol.PlayAgain:
		err = that.playAgain(event.ConnID, action.SessionID)
	case protocol.Surrender:
		err = that.surrender(event.ConnID, action.SessionID)
	case protocol.GetStatus:
		err = that.getStatus(event.ConnID, action.SessionID)
	default:
		err = fmt.Errorf("%w: %T", apperror.ErrUnknownAction, action)
	}

	if err == nil {
		return
	}

	if apperror.IsCallerError(err) {
		log.Debug("Action rejected", "session_id", protocol.SessionOf(event.Action), "reason", err)
		that.notifier.Unicast(event.ConnID, protocol.Error{Message: err.Error()})

		return
	}

	log.Error("Failed to handle action", "error", err)
}

func (that *Engine) createSession(connID string) error {
	session, err := that.registry.Create(connID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("Session created", "session_id", session.ID, "conn_id", connID)

	that.notifier.Unicast(connID, protocol.SessionCreated{
		SessionID:        session.ID,
		Symbol:           session.SymbolOf[connID],
		ParticipantCount: len(session.Participants),
	})

	return nil
}

func (that *Engine) joinSession(connID, sessionID string) error {
	session, err := that.registry.Get(sessionID)
	if err != nil {
		return err
	}

	if err = session.Join(connID); err != nil {
		return err
	}

	that.timers.Arm(session.TurnHolder, session.ID)

	that.logger.Info("Participant joined", "session_id", session.ID, "conn_id", connID)

	that.broadcast(session, protocol.ParticipantJoined{
		ParticipantCount: len(session.Participants),
		TurnHolder:       session.TurnHolder,
		SymbolMap:        session.SymbolMap(),
	})

	return nil
}

func (that *Engine) move(connID, sessionID string, cell int) error {
	session, err := that.registry.Get(sessionID)
	if err != nil {
		return err
	}

	if _, err = session.MakeMove(connID, cell); err != nil {
		return err
	}

	that.timers.Disarm(session.ID, connID)

	if session.IsFinished() {
		that.timers.Disarm(session.ID, session.Participants...)
		that.record(session)
	} else {
		that.timers.Arm(session.TurnHolder, session.ID)
	}

	that.broadcast(session, protocol.MoveMade{
		Board:       session.Board,
		TurnHolder:  session.TurnHolder,
		Winner:      session.Winner,
		WinningLine: session.WinningLine,
		Status:      session.Status,
		CellIndex:   cell,
		Symbol:      session.SymbolOf[connID],
	})

	return nil
}

func (that *Engine) playAgain(connID, sessionID string) error {
	session, err := that.registry.Get(sessionID)
	if err != nil {
		return err
	}

	if !session.IsParticipant(connID) {
		return apperror.ErrSessionNotFound
	}

	if err = session.Rematch(); err != nil {
		return err
	}

	that.timers.Disarm(session.ID, session.Participants...)
	that.timers.Arm(session.Starter, session.ID)

	that.logger.Info("Session reset", "session_id", session.ID, "round", session.Round)

	that.broadcast(session, protocol.SessionReset{
		Board:      session.Board,
		TurnHolder: session.TurnHolder,
		Status:     session.Status,
		Round:      session.Round,
	})

	return nil
}

func (that *Engine) surrender(connID, sessionID string) error {
	session, err := that.registry.Get(sessionID)
	if err != nil {
		return err
	}

	winner, ok := session.Surrender(connID)
	if !ok {
		return nil
	}

	that.timers.Disarm(session.ID, session.Participants...)
	that.record(session)

	that.broadcast(session, protocol.SessionEnded{
		Winner: string(winner),
		Reason: entity.EndReasonSurrender,
	})

	return nil
}

func (that *Engine) getStatus(connID, sessionID string) error {
	session, err := that.registry.Get(sessionID)
	if err != nil {
		return err
	}

	that.notifier.Unicast(connID, protocol.Snapshot(session))

	return nil
}

func (that *Engine) handleDisconnect(connID string) {
	log := that.logger.With("method", "handleDisconnect", "conn_id", connID)

	that.timers.DisarmConn(connID)

	for _, session := range that.registry.SessionsOf(connID) {
		opponent, hasOpponent := session.Leave(connID)

		if session.IsEmpty() {
			that.registry.Remove(session.ID)
			log.Info("Session removed", "session_id", session.ID)

			continue
		}

		if hasOpponent {
			that.timers.Disarm(session.ID, opponent)
			that.notifier.Unicast(opponent, protocol.OpponentLeft{})
			log.Info("Session paused", "session_id", session.ID)
		}
	}
}

func (that *Engine) handleTurnExpired(expiry timer.Expiry) {
	log := that.logger.With("method", "handleTurnExpired", "session_id", expiry.SessionID, "conn_id", expiry.ConnID)

	if !that.timers.Claim(expiry) {
		log.Debug("Stale turn timer ignored")
		return
	}

	session, err := that.registry.Get(expiry.SessionID)
	if err != nil {
		log.Debug("Turn timer outlived its session")
		return
	}

	winner, ok := session.TimeOut(expiry.ConnID)
	if !ok {
		log.Debug("Turn already passed")
		return
	}

	that.timers.Disarm(session.ID, session.Participants...)
	that.record(session)

	log.Info("Turn timed out", "winner", winner)

	that.broadcast(session, protocol.SessionEnded{
		Winner: string(winner),
		Reason: entity.EndReasonTimeout,
	})
}

func (that *Engine) broadcast(session *entity.Session, event protocol.Outbound) {
	that.notifier.Broadcast(session.ID, slices.Clone(session.Participants), event)
}

func (that *Engine) record(session *entity.Session) {
	that.recorder.Record(session.Result(that.clock.Now()))
}
