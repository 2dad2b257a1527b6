package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
)

const maxTypedDigits = 3

// inputClosedMsg is sent when a non-terminal input runs out.
type inputClosedMsg struct{}

// Model is the Bubble Tea model of one console session. A column is picked
// with the arrows or by typing its number, and dropped with enter.
type Model struct {
	ctx      context.Context
	logger   *slog.Logger
	game     gameManager
	renderer *Renderer
	keys     keyMap
	help     help.Model

	cursor   int
	typed    string
	notice   string
	quitting bool
}

func NewModel(ctx context.Context, logger *slog.Logger, game gameManager, renderer *Renderer) Model {
	return Model{
		ctx:      ctx,
		logger:   logger,
		game:     game,
		renderer: renderer,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

func (that Model) Init() tea.Cmd {
	return nil
}

func (that Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// a fast typist or a pipe delivers several runes in one message
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
			return that.handleRunes(msg.Runes)
		}

		return that.handleKey(msg)
	case inputClosedMsg:
		that.quitting = true
		return that, tea.Quit
	case tea.WindowSizeMsg:
		that.help.Width = msg.Width
	}

	return that, nil
}

func (that Model) handleRunes(runes []rune) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	for _, r := range runes {
		that, cmd = that.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		if that.quitting {
			break
		}
	}

	return that, cmd
}

func (that Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, that.keys.Quit):
		that.quitting = true
		return that, tea.Quit
	case key.Matches(msg, that.keys.Reset):
		that.reset()
	case key.Matches(msg, that.keys.Left):
		that.moveCursor(-1)
	case key.Matches(msg, that.keys.Right):
		that.moveCursor(1)
	case key.Matches(msg, that.keys.Delete):
		if that.typed != "" {
			that.typed = that.typed[:len(that.typed)-1]
		}
	case key.Matches(msg, that.keys.Drop):
		that.submit()
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && unicode.IsDigit(msg.Runes[0]):
		if len(that.typed) < maxTypedDigits {
			that.typed += string(msg.Runes)
		}
		that.notice = ""
	default:
		that.notice = fmt.Sprintf("Unknown key %q: type a column number and press enter, r to reset or q to quit.", msg.String())
	}

	return that, nil
}

func (that *Model) moveCursor(delta int) {
	width := that.game.CurrentState().Board.Width

	that.typed = ""
	that.cursor = (that.cursor + delta + width) % width
}

// submit - drops a piece into the typed column, or under the cursor when nothing was typed.
func (that *Model) submit() {
	column := that.cursor

	if that.typed != "" {
		number, err := strconv.Atoi(that.typed)
		that.typed = ""

		if err != nil {
			that.notice = "Column must be a number."
			return
		}

		column = number - 1
	}

	that.dropPiece(column)
}

func (that *Model) dropPiece(column int) {
	log := that.logger.With("method", "dropPiece")

	that.notice = ""

	result, err := that.game.DropPiece(that.ctx, column)
	switch {
	case errors.Is(err, apperror.ErrInvalidColumn):
		width := that.game.CurrentState().Board.Width
		that.notice = fmt.Sprintf("Column must be between 1 and %d.", width)
		return
	case errors.Is(err, apperror.ErrColumnFull):
		that.notice = fmt.Sprintf("Column %d is full.", column+1)
		return
	case errors.Is(err, apperror.ErrGameAlreadyOver):
		that.notice = "The game is over. Press r for a new game or q to quit."
		return
	case err != nil && result.Outcome == "":
		log.Error("move failed", "error", err)
		that.notice = "Something went wrong, try again."
		return
	case err != nil:
		// the move counts, only saving it failed
		log.Warn("move was not saved", "error", err)
		that.notice = "Warning: the game could not be saved."
	}

	that.cursor = column
}

func (that *Model) reset() {
	that.typed = ""

	if _, err := that.game.Reset(that.ctx); err != nil {
		that.logger.Warn("reset was not saved", "error", err)
		that.notice = "New game. Warning: the old game could not be removed from storage."
		return
	}

	that.notice = "New game."
}

func (that Model) View() string {
	if that.quitting {
		return "Bye!\n"
	}

	state := that.game.CurrentState()

	var sb strings.Builder

	if state.IsInProgress() {
		sb.WriteString(that.renderer.Cursor(that.cursor))
	}
	sb.WriteString("\n")
	sb.WriteString(that.renderer.Board(state))
	sb.WriteString("\n\n")

	switch {
	case state.IsWon():
		sb.WriteString(fmt.Sprintf("Player %d (%s) won!\n", state.Winner, that.renderer.Symbol(state.Winner)))
		sb.WriteString("Game over. Press r for a new game or q to quit.")
	case state.IsTied():
		sb.WriteString("The board is full, it's a tie!\n")
		sb.WriteString("Game over. Press r for a new game or q to quit.")
	default:
		sb.WriteString(fmt.Sprintf("Player %d (%s), choose a column [1-%d]: %s",
			state.CurrentPlayer, that.renderer.Symbol(state.CurrentPlayer), state.Board.Width, that.typed))
	}

	if that.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(that.renderer.Notice(that.notice))
	}

	sb.WriteString("\n\n")
	sb.WriteString(that.help.View(that.keys))
	sb.WriteString("\n")

	return sb.String()
}
