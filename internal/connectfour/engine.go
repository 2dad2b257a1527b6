package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/entity"
)

const (
	DefaultWidth  = 7
	DefaultHeight = 6
)

// Engine owns the state of a single game. It is not safe for concurrent use.
type Engine struct {
	state *entity.GameState
}

func NewEngine(gameID string, width, height int) (*Engine, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}

	return &Engine{
		state: entity.NewGameState(gameID, width, height),
	}, nil
}

func (that *Engine) Width() int {
	return that.state.Board.Width
}

func (that *Engine) Height() int {
	return that.state.Board.Height
}

// DropPiece places a piece for the current player in the given column.
// A rejected move leaves the state untouched.
func (that *Engine) DropPiece(column int) (entity.MoveResult, error) {
	if err := that.state.ConfirmInProgress(); err != nil {
		return entity.MoveResult{}, err
	}

	row, err := that.validateMove(column)
	if err != nil {
		return entity.MoveResult{}, fmt.Errorf("invalid move: %w", err)
	}

	player := that.state.CurrentPlayer
	that.state.Board.Set(row, column, player)
	that.state.Moves++

	return that.updateGameStatus(entity.Coord{Row: row, Column: column}, player), nil
}

// Reset starts a new game under the same ID and returns its state.
func (that *Engine) Reset() entity.GameState {
	that.state = entity.NewGameState(that.state.ID, that.Width(), that.Height())

	return that.state.Clone()
}

// CurrentState returns a deep copy of the game state.
func (that *Engine) CurrentState() entity.GameState {
	return that.state.Clone()
}

// AvailableColumns lists the columns that still accept a piece.
func (that *Engine) AvailableColumns() []int {
	if !that.state.IsInProgress() {
		return nil
	}

	columns := make([]int, 0, that.Width())
	for column := 0; column < that.Width(); column++ {
		if !that.state.Board.IsColumnFull(column) {
			columns = append(columns, column)
		}
	}

	return columns
}

// validateMove - returns the row the piece will land in.
func (that *Engine) validateMove(column int) (int, error) {
	if column < 0 || column >= that.Width() {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, column)
	}

	row, ok := that.state.Board.LowestEmptyRow(column)
	if !ok {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	return row, nil
}

// updateGameStatus - checks for a win, then for a tie, then passes the turn.
func (that *Engine) updateGameStatus(placed entity.Coord, player entity.Player) entity.MoveResult {
	if line, ok := FindWinningLine(that.state.Board, player); ok {
		that.state.Status = entity.StatusWon
		that.state.Winner = player
		that.state.WinningLine = line

		return entity.MoveResult{
			Placed:      placed,
			Outcome:     entity.OutcomeWin,
			Winner:      player,
			WinningLine: append([]entity.Coord(nil), line...),
		}
	}

	if IsBoardFull(that.state.Board) {
		that.state.Status = entity.StatusTied

		return entity.MoveResult{
			Placed:  placed,
			Outcome: entity.OutcomeTie,
		}
	}

	that.state.CurrentPlayer = player.Opponent()

	return entity.MoveResult{
		Placed:     placed,
		Outcome:    entity.OutcomeContinue,
		NextPlayer: that.state.CurrentPlayer,
	}
}

func validateDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: %dx%d", apperror.ErrInvalidDimensions, width, height)
	}

	return nil
}
