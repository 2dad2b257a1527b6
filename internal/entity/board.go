package entity

// Coord addresses a cell; row 0 is the top of the board.
type Coord struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Board is a Height x Width grid stored row-major: Cells[row][column].
type Board struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  [][]Player `json:"cells"`
}

func NewBoard(width, height int) *Board {
	cells := make([][]Player, height)
	for row := range cells {
		cells[row] = make([]Player, width)
	}

	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

func (that *Board) InBounds(row, column int) bool {
	return row >= 0 && row < that.Height && column >= 0 && column < that.Width
}

// At returns the occupant of a cell, or Empty when the cell is out of bounds.
func (that *Board) At(row, column int) Player {
	if !that.InBounds(row, column) {
		return Empty
	}

	return that.Cells[row][column]
}

func (that *Board) Set(row, column int, player Player) {
	that.Cells[row][column] = player
}

// LowestEmptyRow scans the column from the bottom row upward.
func (that *Board) LowestEmptyRow(column int) (int, bool) {
	for row := that.Height - 1; row >= 0; row-- {
		if that.Cells[row][column] == Empty {
			return row, true
		}
	}

	return 0, false
}

func (that *Board) IsColumnFull(column int) bool {
	_, ok := that.LowestEmptyRow(column)
	return !ok
}

func (that *Board) Occupied() int {
	count := 0
	for _, row := range that.Cells {
		for _, cell := range row {
			if cell != Empty {
				count++
			}
		}
	}

	return count
}

// Clone returns a deep copy, so callers never alias the engine's grid.
func (that *Board) Clone() *Board {
	if that == nil {
		return nil
	}

	clone := NewBoard(that.Width, that.Height)
	for row := range that.Cells {
		copy(clone.Cells[row], that.Cells[row])
	}

	return clone
}
