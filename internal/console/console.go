package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

type gameManager interface {
	DropPiece(ctx context.Context, column int) (entity.MoveResult, error)
	Reset(ctx context.Context) (entity.GameState, error)
	CurrentState() entity.GameState
}

// Console runs a Model as a Bubble Tea program over the given input and output.
type Console struct {
	logger   *slog.Logger
	game     gameManager
	input    io.Reader
	out      io.Writer
	renderer *Renderer
}

func New(logger *slog.Logger, game gameManager, input io.Reader, out io.Writer, renderer *Renderer) *Console {
	return &Console{
		logger:   logger.With("component", "console"),
		game:     game,
		input:    input,
		out:      out,
		renderer: renderer,
	}
}

// Run - plays until the user quits, the input ends or ctx is canceled.
func (that *Console) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	var program *tea.Program

	input := that.programInput(func() {
		program.Send(inputClosedMsg{})
	})

	program = tea.NewProgram(
		NewModel(ctx, that.logger, that.game, that.renderer),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(that.out),
		tea.WithoutSignalHandler(),
	)

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			log.Info("console stopped", "reason", ctx.Err())
			return nil
		}

		return fmt.Errorf("console program failed: %w", err)
	}

	log.Debug("console closed", "moves", that.game.CurrentState().Moves)

	return nil
}

// programInput - terminals are handed over as they are so Bubble Tea can switch
// them to raw mode. Any other reader reports its end so the program can quit.
func (that *Console) programInput(onEOF func()) io.Reader {
	if file, ok := that.input.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return file
	}

	return &eofReader{reader: that.input, onEOF: onEOF}
}

type eofReader struct {
	reader io.Reader
	once   sync.Once
	onEOF  func()
}

func (that *eofReader) Read(p []byte) (int, error) {
	n, err := that.reader.Read(p)
	if errors.Is(err, io.EOF) {
		that.once.Do(that.onEOF)
	}

	return n, err
}
