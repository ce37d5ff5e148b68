package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// MakeTurn places playerMark on cell and settles the session: a win or a draw clears the
// board and leaves the turn as it was, any other move passes the turn to the opponent.
func MakeTurn(session *entity.Session, playerMark entity.Mark, cell int) (*entity.MoveOutcome, error) {
	if err := validateMove(session, playerMark, cell); err != nil {
		return nil, fmt.Errorf("invalid turn: %w", err)
	}

	if err := session.Board.SetCell(cell, playerMark); err != nil {
		return nil, fmt.Errorf("invalid turn: %w", err)
	}

	outcome := &entity.MoveOutcome{
		Cell:  cell,
		Mark:  playerMark,
		Board: session.Board,
	}

	updateGameStatus(session, outcome)

	return outcome, nil
}

// validateMove - checks if the move is valid.
func validateMove(session *entity.Session, playerMark entity.Mark, cell int) error {
	if !entity.InRange(cell) {
		return fmt.Errorf("%w: cell %d", entity.ErrInvalidCell, cell)
	}

	if session.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if !session.Board.IsEmptyCell(cell) {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(session *entity.Session, outcome *entity.MoveOutcome) {
	switch {
	case session.Board.Winner() != entity.EmptyCell:
		outcome.Outcome = entity.OutcomeWin
		outcome.Winner = outcome.Mark
		session.Board.Reset()
	case session.Board.IsFull():
		outcome.Outcome = entity.OutcomeDraw
		outcome.Winner = entity.PlayerTie
		session.Board.Reset()
	default:
		outcome.Outcome = entity.OutcomeContinue
		session.Turn = session.Turn.Opponent()
	}
}
