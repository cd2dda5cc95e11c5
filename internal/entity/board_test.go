package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWithLine(symbol Symbol, line Line) Board {
	var board Board
	for _, idx := range line {
		board[idx] = symbol
	}
	return board
}

func TestEvaluate(t *testing.T) {
	t.Run("Returns the winner and line for every completed triple", func(t *testing.T) {
		for _, symbol := range []Symbol{SymbolX, SymbolO} {
			for _, combo := range WinCombos {
				// Given: a board where only one triple is filled with the symbol
				board := boardWithLine(symbol, combo)

				// When: evaluating the board
				result := Evaluate(board)

				// Then: the symbol wins on exactly that line
				require.Equal(t, OutcomeWin, result.Outcome, "combo %v", combo)
				assert.Equal(t, symbol, result.Winner)
				require.NotNil(t, result.Line)
				assert.Equal(t, combo, *result.Line)
			}
		}
	})

	t.Run("Returns a draw without a line for a full board", func(t *testing.T) {
		// Given: a full board with no completed triple
		board := Board{
			SymbolX, SymbolO, SymbolX,
			SymbolX, SymbolO, SymbolO,
			SymbolO, SymbolX, SymbolX,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: it is a draw
		assert.Equal(t, OutcomeDraw, result.Outcome)
		assert.Equal(t, EmptyCell, result.Winner)
		assert.Nil(t, result.Line)
	})

	t.Run("Returns none while cells remain and no triple is complete", func(t *testing.T) {
		// Given: a partially filled board
		board := Board{
			SymbolX, SymbolO, EmptyCell,
			EmptyCell, SymbolX, EmptyCell,
			EmptyCell, EmptyCell, SymbolO,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: the game continues
		assert.Equal(t, OutcomeNone, result.Outcome)
		assert.Nil(t, result.Line)
	})

	t.Run("Returns none for an empty board", func(t *testing.T) {
		assert.Equal(t, OutcomeNone, Evaluate(Board{}).Outcome)
	})

	t.Run("Prefers rows over columns when both are complete", func(t *testing.T) {
		// Given: a full board where X completes the top row and the left column
		board := Board{
			SymbolX, SymbolX, SymbolX,
			SymbolX, SymbolO, SymbolO,
			SymbolX, SymbolO, SymbolO,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: the first triple in priority order is reported, not a draw
		require.Equal(t, OutcomeWin, result.Outcome)
		assert.Equal(t, Line{0, 1, 2}, *result.Line)
	})
}

func TestSymbol_JSON(t *testing.T) {
	t.Run("Empty cells are encoded as null", func(t *testing.T) {
		// Given: a board with one mark
		board := Board{SymbolX}

		// When: encoding the board
		data, err := json.Marshal(board)

		// Then: empty cells are null
		require.NoError(t, err)
		assert.JSONEq(t, `["X",null,null,null,null,null,null,null,null]`, string(data))
	})

	t.Run("Null decodes to an empty cell", func(t *testing.T) {
		var board Board

		err := json.Unmarshal([]byte(`[null,"O",null,null,null,null,null,null,"X"]`), &board)

		require.NoError(t, err)
		assert.Equal(t, Board{EmptyCell, SymbolO, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, SymbolX}, board)
	})
}
