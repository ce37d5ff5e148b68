package apperror

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateSession = errors.New("session already exists")
	ErrNoRoomsExist     = errors.New("no rooms available")
	ErrNoRoomAvailable  = errors.New("all rooms are full")
	ErrUnknownAction    = errors.New("unknown action")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
)
