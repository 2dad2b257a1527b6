package connectfour

import "github.com/rocketscienceinc/connectfour/internal/entity"

const lineLength = 4

// directions are tried in this order at every start cell: horizontal,
// vertical, diagonal down-right, diagonal down-left.
var directions = [...]entity.Coord{
	{Row: 0, Column: 1},
	{Row: 1, Column: 0},
	{Row: 1, Column: 1},
	{Row: 1, Column: -1},
}

// FindWinningLine scans every cell in row-major order as a line start and
// returns the first four-in-a-row owned by player.
func FindWinningLine(board *entity.Board, player entity.Player) ([]entity.Coord, bool) {
	if !player.IsValid() {
		return nil, false
	}

	for row := 0; row < board.Height; row++ {
		for column := 0; column < board.Width; column++ {
			for _, direction := range directions {
				if line, ok := lineFrom(board, player, row, column, direction); ok {
					return line, true
				}
			}
		}
	}

	return nil, false
}

func lineFrom(board *entity.Board, player entity.Player, row, column int, direction entity.Coord) ([]entity.Coord, bool) {
	line := make([]entity.Coord, 0, lineLength)

	for step := 0; step < lineLength; step++ {
		y := row + step*direction.Row
		x := column + step*direction.Column

		if !board.InBounds(y, x) || board.Cells[y][x] != player {
			return nil, false
		}

		line = append(line, entity.Coord{Row: y, Column: x})
	}

	return line, true
}

// IsBoardFull reports whether no column can take another piece.
func IsBoardFull(board *entity.Board) bool {
	for column := 0; column < board.Width; column++ {
		if !board.IsColumnFull(column) {
			return false
		}
	}

	return true
}
