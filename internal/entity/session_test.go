package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	first  = "conn-1"
	second = "conn-2"
)

func playingSession(t *testing.T) *Session {
	t.Helper()

	session := NewSession("ABC123", first)
	require.NoError(t, session.Join(second))

	return session
}

func TestNewSession(t *testing.T) {
	// When: a session is created
	session := NewSession("ABC123", first)

	// Then: the creator is seated as X and holds the first turn
	assert.Equal(t, StatusWaiting, session.Status)
	assert.Equal(t, []string{first}, session.Participants)
	assert.Equal(t, SymbolX, session.SymbolOf[first])
	assert.Equal(t, first, session.TurnHolder)
	assert.Equal(t, first, session.Starter)
	assert.Equal(t, Board{}, session.Board)
}

func TestSession_Join(t *testing.T) {
	t.Run("Seats the second participant as O", func(t *testing.T) {
		session := NewSession("ABC123", first)

		err := session.Join(second)

		require.NoError(t, err)
		assert.Equal(t, StatusPlaying, session.Status)
		assert.Equal(t, []string{first, second}, session.Participants)
		assert.Equal(t, SymbolO, session.SymbolOf[second])
		assert.Equal(t, first, session.TurnHolder)
	})

	t.Run("Rejects a third participant", func(t *testing.T) {
		session := playingSession(t)

		err := session.Join("conn-3")

		require.ErrorIs(t, err, apperror.ErrSessionFull)
		assert.Len(t, session.Participants, 2)
	})

	t.Run("Rejects the creator joining twice", func(t *testing.T) {
		session := NewSession("ABC123", first)

		err := session.Join(first)

		require.ErrorIs(t, err, apperror.ErrSessionFull)
		assert.Equal(t, StatusWaiting, session.Status)
	})

	t.Run("Rejects joining a paused session", func(t *testing.T) {
		session := playingSession(t)
		session.Leave(second)

		err := session.Join("conn-3")

		require.ErrorIs(t, err, apperror.ErrSessionFull)
	})
}

func TestSession_MakeMove(t *testing.T) {
	t.Run("Places the symbol and passes the turn", func(t *testing.T) {
		session := playingSession(t)

		result, err := session.MakeMove(first, 4)

		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, result.Outcome)
		assert.Equal(t, SymbolX, session.Board[4])
		assert.Equal(t, second, session.TurnHolder)
		assert.Equal(t, StatusPlaying, session.Status)
	})

	t.Run("Rejections leave the session unchanged", func(t *testing.T) {
		tests := []struct {
			name    string
			prepare func(s *Session)
			conn    string
			cell    int
			wantErr error
		}{
			{name: "wrong turn", conn: second, cell: 1, wantErr: apperror.ErrWrongTurn},
			{name: "stranger", conn: "conn-3", cell: 1, wantErr: apperror.ErrWrongTurn},
			{name: "occupied", conn: second, cell: 0, wantErr: apperror.ErrCellOccupied, prepare: func(s *Session) {
				_, _ = s.MakeMove(first, 0)
			}},
			{name: "not playing", conn: first, cell: 1, wantErr: apperror.ErrSessionNotPlaying, prepare: func(s *Session) {
				s.Status = StatusFinished
			}},
			{name: "out of range", conn: first, cell: 9, wantErr: ErrInvalidCell},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Given: a playing session
				session := playingSession(t)
				if tt.prepare != nil {
					tt.prepare(session)
				}
				board, turn, status := session.Board, session.TurnHolder, session.Status

				// When: an invalid move is attempted
				_, err := session.MakeMove(tt.conn, tt.cell)

				// Then: the error is returned and nothing changed
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, board, session.Board)
				assert.Equal(t, turn, session.TurnHolder)
				assert.Equal(t, status, session.Status)
			})
		}
	})

	t.Run("Finishes the session on a winning line", func(t *testing.T) {
		session := playingSession(t)

		for _, move := range []struct {
			conn string
			cell int
		}{{first, 0}, {second, 3}, {first, 1}, {second, 4}, {first, 2}} {
			_, err := session.MakeMove(move.conn, move.cell)
			require.NoError(t, err)
		}

		assert.Equal(t, StatusFinished, session.Status)
		assert.Equal(t, string(SymbolX), session.Winner)
		require.NotNil(t, session.WinningLine)
		assert.Equal(t, Line{0, 1, 2}, *session.WinningLine)
		assert.Equal(t, EndReasonNormal, session.EndReason)
		assert.Equal(t, second, session.TurnHolder)
	})

	t.Run("Finishes the session as a draw on a full board", func(t *testing.T) {
		session := playingSession(t)

		// X O X / X O O / O X X
		for _, move := range []struct {
			conn string
			cell int
		}{{first, 0}, {second, 1}, {first, 2}, {second, 4}, {first, 3}, {second, 5}, {first, 7}, {second, 6}, {first, 8}} {
			_, err := session.MakeMove(move.conn, move.cell)
			require.NoError(t, err)
		}

		assert.Equal(t, StatusFinished, session.Status)
		assert.Equal(t, WinnerDraw, session.Winner)
		assert.Nil(t, session.WinningLine)
	})

	t.Run("Turns alternate between participants", func(t *testing.T) {
		session := playingSession(t)
		starterIdx := 0

		for n, cell := range []int{0, 4, 8, 2, 6} {
			_, err := session.MakeMove(session.TurnHolder, cell)
			require.NoError(t, err)

			if session.IsPlaying() {
				assert.Equal(t, session.Participants[(starterIdx+n+1)%2], session.TurnHolder)
			}
		}
	})
}

func TestSession_TimeOut(t *testing.T) {
	t.Run("Declares the opponent the winner", func(t *testing.T) {
		session := playingSession(t)

		winner, ok := session.TimeOut(first)

		require.True(t, ok)
		assert.Equal(t, SymbolO, winner)
		assert.Equal(t, StatusFinished, session.Status)
		assert.Equal(t, EndReasonTimeout, session.EndReason)
		assert.Nil(t, session.WinningLine)
	})

	t.Run("Ignores a stale turn holder", func(t *testing.T) {
		session := playingSession(t)
		_, err := session.MakeMove(first, 0)
		require.NoError(t, err)

		_, ok := session.TimeOut(first)

		assert.False(t, ok)
		assert.Equal(t, StatusPlaying, session.Status)
	})
}

func TestSession_Surrender(t *testing.T) {
	t.Run("Declares the other participant the winner", func(t *testing.T) {
		session := playingSession(t)

		winner, ok := session.Surrender(second)

		require.True(t, ok)
		assert.Equal(t, SymbolX, winner)
		assert.Equal(t, EndReasonSurrender, session.EndReason)
		assert.Equal(t, StatusFinished, session.Status)
	})

	t.Run("Is a no-op without an opponent", func(t *testing.T) {
		session := NewSession("ABC123", first)

		_, ok := session.Surrender(first)

		assert.False(t, ok)
		assert.Equal(t, StatusWaiting, session.Status)
	})

	t.Run("Is a no-op once the round has ended", func(t *testing.T) {
		session := playingSession(t)
		_, _ = session.TimeOut(first)

		_, ok := session.Surrender(second)

		assert.False(t, ok)
		assert.Equal(t, EndReasonTimeout, session.EndReason)
	})
}

func TestSession_Rematch(t *testing.T) {
	t.Run("Alternates the starter and clears the round", func(t *testing.T) {
		session := playingSession(t)
		_, _ = session.Surrender(first)

		require.NoError(t, session.Rematch())
		assert.Equal(t, second, session.Starter)
		assert.Equal(t, second, session.TurnHolder)
		assert.Equal(t, StatusPlaying, session.Status)
		assert.Empty(t, session.Winner)
		assert.Nil(t, session.WinningLine)
		assert.Empty(t, session.EndReason)
		assert.Equal(t, Board{}, session.Board)
		assert.Equal(t, 2, session.Round)

		require.NoError(t, session.Rematch())
		assert.Equal(t, first, session.Starter)
		assert.Equal(t, 3, session.Round)
	})

	t.Run("Rejects a session with an empty seat", func(t *testing.T) {
		session := playingSession(t)
		session.Leave(second)

		err := session.Rematch()

		require.ErrorIs(t, err, apperror.ErrSessionNotPlaying)
		assert.Equal(t, StatusPaused, session.Status)
	})
}

func TestSession_Leave(t *testing.T) {
	t.Run("Pauses the session for the remaining participant", func(t *testing.T) {
		session := playingSession(t)
		_, _ = session.MakeMove(first, 0)

		opponent, ok := session.Leave(second)

		require.True(t, ok)
		assert.Equal(t, first, opponent)
		assert.Equal(t, []string{first}, session.Participants)
		assert.Equal(t, StatusPaused, session.Status)
		assert.Equal(t, SymbolX, session.Board[0])
		assert.NotContains(t, session.SymbolOf, second)
	})

	t.Run("Empties the session when the last participant leaves", func(t *testing.T) {
		session := NewSession("ABC123", first)

		_, ok := session.Leave(first)

		assert.False(t, ok)
		assert.True(t, session.IsEmpty())
	})

	t.Run("Ignores strangers", func(t *testing.T) {
		session := playingSession(t)

		_, ok := session.Leave("conn-3")

		assert.False(t, ok)
		assert.Len(t, session.Participants, 2)
		assert.Equal(t, StatusPlaying, session.Status)
	})
}

func TestSession_Result(t *testing.T) {
	session := playingSession(t)
	_, _ = session.Surrender(first)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	result := session.Result(at)

	assert.Equal(t, Result{
		SessionID:  "ABC123",
		Round:      1,
		Winner:     string(SymbolO),
		Reason:     EndReasonSurrender,
		Board:      Board{},
		FinishedAt: at,
	}, result)
}
