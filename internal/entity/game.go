package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
)

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusTied       = "tied"
)

const (
	OutcomeContinue = "continue"
	OutcomeWin      = "win"
	OutcomeTie      = "tie"
)

type GameState struct {
	ID            string  `json:"id"`
	Board         *Board  `json:"board"`
	CurrentPlayer Player  `json:"current_player"`
	Status        string  `json:"status"`
	Winner        Player  `json:"winner,omitempty"`
	WinningLine   []Coord `json:"winning_line,omitempty"`
	Moves         int     `json:"moves"`
}

// MoveResult describes an accepted move. WinningLine is set only for a win,
// NextPlayer only when the game continues.
type MoveResult struct {
	Placed      Coord   `json:"placed"`
	Outcome     string  `json:"outcome"`
	Winner      Player  `json:"winner,omitempty"`
	WinningLine []Coord `json:"winning_line,omitempty"`
	NextPlayer  Player  `json:"next_player,omitempty"`
}

func NewGameState(id string, width, height int) *GameState {
	return &GameState{
		ID:            id,
		Board:         NewBoard(width, height),
		CurrentPlayer: Player1,
		Status:        StatusInProgress,
	}
}

func (that *GameState) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *GameState) IsWon() bool {
	return that.Status == StatusWon
}

func (that *GameState) IsTied() bool {
	return that.Status == StatusTied
}

func (that *GameState) IsFinished() bool {
	return that.IsWon() || that.IsTied()
}

func (that *GameState) ConfirmInProgress() error {
	switch {
	case that.IsInProgress():
		return nil
	case that.IsFinished():
		return apperror.ErrGameAlreadyOver
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrCorruptedState, that.Status)
	}
}

// Clone returns a deep copy of the state.
func (that *GameState) Clone() GameState {
	clone := *that
	clone.Board = that.Board.Clone()

	if that.WinningLine != nil {
		clone.WinningLine = append([]Coord(nil), that.WinningLine...)
	}

	return clone
}
