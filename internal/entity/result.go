package entity

import "time"

const (
	OutcomeContinue = "continue"
	OutcomeWin      = "win"
	OutcomeDraw     = "draw"
)

// MoveOutcome describes an accepted move and what it led to.
type MoveOutcome struct {
	Cell    int    `json:"cell"`
	Mark    Mark   `json:"mark"`
	Outcome string `json:"outcome"`
	Winner  Mark   `json:"winner,omitempty"`
	// Board is the position right after the move, before any terminal reset.
	Board Board `json:"board"`
}

func (that *MoveOutcome) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeDraw
}

// MatchResult is a finished game, kept for statistics.
type MatchResult struct {
	SessionID  string    `json:"session_id"`
	Winner     Mark      `json:"winner"`
	Board      Board     `json:"board"`
	FinishedAt time.Time `json:"finished_at"`
}

type Totals struct {
	XWins int64 `json:"x_wins"`
	OWins int64 `json:"o_wins"`
	Draws int64 `json:"draws"`
}
