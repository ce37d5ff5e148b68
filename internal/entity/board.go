package entity

import (
	"errors"
	"fmt"
)

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"

	EmptyCell Mark = ""
)

const BoardSize = 9

var (
	ErrInvalidCell = errors.New("invalid cell index")
	ErrInvalidMark = errors.New("invalid mark")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the 3x3 grid, row by row.
type Board [BoardSize]Mark

// Opponent returns the other playable mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsPlayable() bool {
	return that == PlayerX || that == PlayerO
}

func InRange(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func (that *Board) IsEmptyCell(cell int) bool {
	return InRange(cell) && that[cell] == EmptyCell
}

// SetCell places mark on an empty cell.
func (that *Board) SetCell(cell int, mark Mark) error {
	if !InRange(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if !mark.IsPlayable() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	that[cell] = mark

	return nil
}

// Winner returns the mark holding a full row, column or diagonal, or EmptyCell.
func (that *Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) Reset() {
	*that = Board{}
}
