package entity

import (
	"encoding/json"
	"fmt"
)

// Symbol is the mark a participant places on the board.
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"

	EmptyCell Symbol = ""
)

const BoardSize = 9

// Board holds the 9 cells in row-major order.
type Board [BoardSize]Symbol

// Line is an ordered triple of cell indices.
type Line [3]int

// WinCombos - rows, columns, diagonals. Evaluate checks them in this order.
var WinCombos = [...]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// Evaluation is the verdict of Evaluate. Winner and Line are set only for OutcomeWin.
type Evaluation struct {
	Outcome Outcome
	Winner  Symbol
	Line    *Line
}

// Evaluate - returns the first completed line, a draw for a full board, or none.
func Evaluate(board Board) Evaluation {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			line := combo
			return Evaluation{Outcome: OutcomeWin, Winner: a, Line: &line}
		}
	}

	// the game continues until all the cells are full
	for _, cell := range board {
		if cell == EmptyCell {
			return Evaluation{Outcome: OutcomeNone}
		}
	}

	return Evaluation{Outcome: OutcomeDraw}
}

// Opposite - returns the other player's symbol.
func (that Symbol) Opposite() Symbol {
	if that == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// MarshalJSON encodes an empty cell as null.
func (that Symbol) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}

	return json.Marshal(string(that))
}

func (that *Symbol) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = EmptyCell
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal symbol: %w", err)
	}

	*that = Symbol(raw)

	return nil
}
