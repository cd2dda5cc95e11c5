package entity

import "time"

// Result is an archived round outcome.
type Result struct {
	SessionID  string    `json:"session_id"`
	Round      int       `json:"round"`
	Winner     string    `json:"winner"`
	Reason     EndReason `json:"reason"`
	Line       *Line     `json:"line,omitempty"`
	Board      Board     `json:"board"`
	FinishedAt time.Time `json:"finished_at"`
}

// OutcomeStats counts archived rounds by how they ended.
type OutcomeStats struct {
	Rounds     int64 `json:"rounds"`
	XWins      int64 `json:"x_wins"`
	OWins      int64 `json:"o_wins"`
	Draws      int64 `json:"draws"`
	Timeouts   int64 `json:"timeouts"`
	Surrenders int64 `json:"surrenders"`
}
