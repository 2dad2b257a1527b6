package entity

import "strconv"

// Player identifies whose piece occupies a cell and whose turn is active.
// The zero value marks an empty cell.
type Player int

const (
	Empty Player = iota
	Player1
	Player2
)

// Opponent returns the other player. Empty has no opponent.
func (that Player) Opponent() Player {
	switch that {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return Empty
	}
}

func (that Player) IsValid() bool {
	return that == Player1 || that == Player2
}

func (that Player) String() string {
	switch that {
	case Empty:
		return "empty"
	case Player1, Player2:
		return "player " + strconv.Itoa(int(that))
	default:
		return "unknown player " + strconv.Itoa(int(that))
	}
}
