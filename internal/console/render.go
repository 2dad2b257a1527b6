package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

var pieceSymbols = map[entity.Player]string{
	entity.Empty:   ".",
	entity.Player1: "X",
	entity.Player2: "O",
}

// Renderer draws boards as text. Colors follow the terminal behind out.
type Renderer struct {
	styles  map[entity.Player]lipgloss.Style
	winning lipgloss.Style
	header  lipgloss.Style
	notice  lipgloss.Style
}

func NewRenderer(out io.Writer, opts ...termenv.OutputOption) *Renderer {
	r := lipgloss.NewRenderer(out, opts...)

	return &Renderer{
		styles: map[entity.Player]lipgloss.Style{
			entity.Empty:   r.NewStyle().Foreground(lipgloss.Color("245")),
			entity.Player1: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			entity.Player2: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		},
		winning: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Underline(true),
		header:  r.NewStyle().Foreground(lipgloss.Color("12")),
		notice:  r.NewStyle().Foreground(lipgloss.Color("208")),
	}
}

func (that *Renderer) Symbol(player entity.Player) string {
	return that.styles[player].Render(pieceSymbols[player])
}

// Board renders a 1-based column header and the grid, top row first.
// Cells of the winning line are bracketed.
func (that *Renderer) Board(state entity.GameState) string {
	board := state.Board

	winning := make(map[entity.Coord]bool, len(state.WinningLine))
	for _, coord := range state.WinningLine {
		winning[coord] = true
	}

	var sb strings.Builder

	header := make([]string, 0, board.Width)
	for column := 1; column <= board.Width; column++ {
		header = append(header, that.header.Render(fmt.Sprintf("%2d", column))+" ")
	}
	sb.WriteString(strings.TrimRight(strings.Join(header, ""), " "))

	for row := 0; row < board.Height; row++ {
		sb.WriteByte('\n')

		cells := make([]string, 0, board.Width)
		for column := 0; column < board.Width; column++ {
			player := board.At(row, column)
			if winning[entity.Coord{Row: row, Column: column}] {
				cells = append(cells, "["+that.winning.Render(pieceSymbols[player])+"]")
				continue
			}

			cells = append(cells, " "+that.Symbol(player)+" ")
		}

		sb.WriteString(strings.TrimRight(strings.Join(cells, ""), " "))
	}

	return sb.String()
}

// Cursor marks the selected column, aligned with the Board header.
func (that *Renderer) Cursor(column int) string {
	return strings.Repeat(" ", 3*column+1) + that.header.Render("v")
}

func (that *Renderer) Notice(text string) string {
	return that.notice.Render(text)
}
