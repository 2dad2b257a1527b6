package apperror

import "errors"

var (
	ErrInvalidColumn     = errors.New("invalid column index")
	ErrColumnFull        = errors.New("column is full")
	ErrGameAlreadyOver   = errors.New("game is already over")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrCorruptedState    = errors.New("corrupted game state")
)
