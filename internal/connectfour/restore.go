package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/entity"
)

// RestoreEngine rebuilds an engine from a saved snapshot. Pieces must rest on
// each other, turns must alternate, and a won board must hold lines for the
// last mover only, with a top piece whose removal clears every one of them.
func RestoreEngine(state entity.GameState) (*Engine, error) {
	if state.Board == nil {
		return nil, fmt.Errorf("%w: missing board", apperror.ErrCorruptedState)
	}

	if err := validateDimensions(state.Board.Width, state.Board.Height); err != nil {
		return nil, err
	}

	if err := validateBoard(state.Board); err != nil {
		return nil, err
	}

	restored := state.Clone()
	if err := validateProgress(&restored); err != nil {
		return nil, err
	}

	return &Engine{state: &restored}, nil
}

func validateBoard(board *entity.Board) error {
	if len(board.Cells) != board.Height {
		return fmt.Errorf("%w: expected %d rows, got %d", apperror.ErrCorruptedState, board.Height, len(board.Cells))
	}

	for row, cells := range board.Cells {
		if len(cells) != board.Width {
			return fmt.Errorf("%w: row %d has %d cells", apperror.ErrCorruptedState, row, len(cells))
		}

		for column, cell := range cells {
			if cell != entity.Empty && !cell.IsValid() {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", apperror.ErrCorruptedState, row, column, cell)
			}

			// pieces rest on the bottom or on another piece
			if cell != entity.Empty && row+1 < board.Height && board.Cells[row+1][column] == entity.Empty {
				return fmt.Errorf("%w: floating piece at (%d,%d)", apperror.ErrCorruptedState, row, column)
			}
		}
	}

	return nil
}

// validateProgress checks the status against the pieces on the board and
// recomputes the winning line.
func validateProgress(state *entity.GameState) error {
	var first, second int
	for _, cells := range state.Board.Cells {
		for _, cell := range cells {
			switch cell {
			case entity.Player1:
				first++
			case entity.Player2:
				second++
			}
		}
	}

	if state.Moves != first+second {
		return fmt.Errorf("%w: %d moves recorded for %d pieces", apperror.ErrCorruptedState, state.Moves, first+second)
	}

	if first != second && first != second+1 {
		return fmt.Errorf("%w: piece counts %d and %d", apperror.ErrCorruptedState, first, second)
	}

	// player 1 moved last when it has one piece more
	lastMover := entity.Player2
	if first > second {
		lastMover = entity.Player1
	}

	_, firstWon := FindWinningLine(state.Board, entity.Player1)
	_, secondWon := FindWinningLine(state.Board, entity.Player2)

	switch state.Status {
	case entity.StatusInProgress:
		if firstWon || secondWon || IsBoardFull(state.Board) {
			return fmt.Errorf("%w: finished position marked in progress", apperror.ErrCorruptedState)
		}

		if state.CurrentPlayer != lastMover.Opponent() {
			return fmt.Errorf("%w: %s cannot be on turn", apperror.ErrCorruptedState, state.CurrentPlayer)
		}

		state.Winner = entity.Empty
		state.WinningLine = nil
	case entity.StatusWon:
		if state.Winner != lastMover {
			return fmt.Errorf("%w: winner %s did not make the last move", apperror.ErrCorruptedState, state.Winner)
		}

		line, ok := FindWinningLine(state.Board, state.Winner)
		if !ok {
			return fmt.Errorf("%w: no winning line for %s", apperror.ErrCorruptedState, state.Winner)
		}

		if _, lost := FindWinningLine(state.Board, state.Winner.Opponent()); lost {
			return fmt.Errorf("%w: %s also holds a line", apperror.ErrCorruptedState, state.Winner.Opponent())
		}

		if !lastMoveCompletes(state.Board, state.Winner) {
			return fmt.Errorf("%w: %s was already winning before the last move", apperror.ErrCorruptedState, state.Winner)
		}

		state.WinningLine = line
		state.CurrentPlayer = state.Winner
	case entity.StatusTied:
		if firstWon || secondWon || !IsBoardFull(state.Board) {
			return fmt.Errorf("%w: tie on a board that is not a tie", apperror.ErrCorruptedState)
		}

		state.Winner = entity.Empty
		state.WinningLine = nil
		state.CurrentPlayer = lastMover
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrCorruptedState, state.Status)
	}

	return nil
}

// lastMoveCompletes reports whether some top piece of player is the one that
// completed all of its lines.
func lastMoveCompletes(board *entity.Board, player entity.Player) bool {
	for column := 0; column < board.Width; column++ {
		row, ok := board.LowestEmptyRow(column)
		if !ok {
			row = -1
		}

		top := row + 1
		if top >= board.Height || board.At(top, column) != player {
			continue
		}

		before := board.Clone()
		before.Set(top, column, entity.Empty)

		if _, won := FindWinningLine(before, player); !won {
			return true
		}
	}

	return false
}
