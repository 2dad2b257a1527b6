package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour/internal/connectfour"
	"github.com/rocketscienceinc/connectfour/internal/entity"
	"github.com/rocketscienceinc/connectfour/internal/repository"
	"github.com/rocketscienceinc/connectfour/internal/usecase"
)

func newTestManager(t *testing.T, width, height int) *usecase.GameManager {
	t.Helper()

	engine, err := connectfour.NewEngine("console", width, height)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return usecase.NewGameManager(logger, engine, repository.NewInMemoryGameRepository())
}

func newTestModel(t *testing.T, width, height int) (Model, *usecase.GameManager) {
	t.Helper()

	manager := newTestManager(t, width, height)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewModel(context.Background(), logger, manager, plainRenderer()), manager
}

// press feeds keys to the model the way Bubble Tea would deliver them.
func press(t *testing.T, model Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		var msg tea.KeyMsg

		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		updated, _ := model.Update(msg)

		var ok bool
		model, ok = updated.(Model)
		require.True(t, ok)
	}

	return model
}

func TestModel_Update(t *testing.T) {
	t.Run("Typed columns play a vertical win", func(t *testing.T) {
		// Given: a fresh 7x6 game
		model, manager := newTestModel(t, 7, 6)

		// When: player 1 stacks column 1 while player 2 answers in column 2
		model = press(t, model,
			"1", "enter", "2", "enter", "1", "enter", "2", "enter",
			"1", "enter", "2", "enter", "1", "enter")

		// Then: the win is shown with the line highlighted
		view := model.View()
		assert.Contains(t, view, "Player 1 (X) won!")
		assert.Contains(t, view, "[X] .  .  .  .  .  .\n[X] O  .  .  .  .  .\n[X] O  .  .  .  .  .\n[X] O  .  .  .  .  .")
		assert.Contains(t, view, "Game over. Press r for a new game or q to quit.")
		assert.Equal(t, entity.StatusWon, manager.CurrentState().Status)
	})

	t.Run("Arrows pick the column and wrap around", func(t *testing.T) {
		model, manager := newTestModel(t, 7, 6)

		// When: the cursor moves right twice, then left, then past the left edge
		model = press(t, model, "right", "right", "enter", "left", "enter", "left", "left", "enter")

		// Then: the pieces land under the cursor each time
		board := manager.CurrentState().Board
		assert.Equal(t, entity.Player1, board.At(5, 2))
		assert.Equal(t, entity.Player2, board.At(5, 1))
		assert.Equal(t, entity.Player1, board.At(5, 6))
		assert.True(t, strings.HasPrefix(model.View(), strings.Repeat(" ", 19)+"v\n"))
	})

	t.Run("Digits delivered together are typed one by one", func(t *testing.T) {
		model, manager := newTestModel(t, 7, 6)

		// When: "12" arrives in one message and the last digit is erased
		model = press(t, model, "12")
		assert.Contains(t, model.View(), "choose a column [1-7]: 12")

		model = press(t, model, "backspace", "enter")

		// Then: the piece goes to column 1
		assert.Equal(t, entity.Player1, manager.CurrentState().Board.At(5, 0))
	})

	t.Run("Rejected input keeps the game going", func(t *testing.T) {
		// Given: a 2x2 board
		model, manager := newTestModel(t, 2, 2)

		// When: a column out of range is typed
		model = press(t, model, "0", "enter")

		// Then: the range is explained
		assert.Contains(t, model.View(), "Column must be between 1 and 2.")

		model = press(t, model, "3", "enter")
		assert.Contains(t, model.View(), "Column must be between 1 and 2.")

		model = press(t, model, "x")
		assert.Contains(t, model.View(), `Unknown key "x"`)

		model = press(t, model, "1", "enter", "1", "enter", "1", "enter")
		assert.Contains(t, model.View(), "Column 1 is full.")
		assert.Equal(t, 2, manager.CurrentState().Moves)
		assert.Contains(t, model.View(), "Player 1 (X), choose a column [1-2]: ")
	})

	t.Run("Tie and reset", func(t *testing.T) {
		// Given: a 2x2 board filled without a line
		model, manager := newTestModel(t, 2, 2)
		model = press(t, model, "1", "enter", "1", "enter", "2", "enter", "2", "enter")

		assert.Contains(t, model.View(), "The board is full, it's a tie!")

		// When: another move is tried and the game is reset
		model = press(t, model, "1", "enter")
		assert.Contains(t, model.View(), "The game is over. Press r for a new game or q to quit.")

		model = press(t, model, "r")

		// Then: a new game starts
		assert.Contains(t, model.View(), "New game.")

		state := manager.CurrentState()
		assert.True(t, state.IsInProgress())
		assert.Equal(t, 0, state.Moves)
	})

	t.Run("Quit stops the program", func(t *testing.T) {
		model, _ := newTestModel(t, 7, 6)

		updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, "Bye!\n", updated.View())
	})

	t.Run("Keys after quit in the same message are ignored", func(t *testing.T) {
		model, manager := newTestModel(t, 7, 6)

		updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1q2")})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, "1", updated.(Model).typed)
		assert.Equal(t, 0, manager.CurrentState().Moves)
	})

	t.Run("End of input quits", func(t *testing.T) {
		model, _ := newTestModel(t, 7, 6)

		_, cmd := model.Update(inputClosedMsg{})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

// runConsole runs the console in the background and fails the test if it hangs.
func runConsole(ctx context.Context, t *testing.T, console *Console) error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- console.Run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("console did not stop")
		return nil
	}
}

func TestConsole_Run(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Plays a vertical win and quits", func(t *testing.T) {
		// Given: keystrokes that stack column 1 for player 1, then q
		manager := newTestManager(t, 7, 6)
		input := strings.NewReader("1\r2\r1\r2\r1\r2\r1\rq")

		var out bytes.Buffer
		console := New(logger, manager, input, &out, plainRenderer())

		// When: the console runs
		err := runConsole(context.Background(), t, console)

		// Then: the game was won and the program drew something
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWon, manager.CurrentState().Status)
		assert.NotEmpty(t, out.String())
	})

	t.Run("Stops at the end of input", func(t *testing.T) {
		// Given: two moves and no quit key
		manager := newTestManager(t, 2, 2)
		console := New(logger, manager, strings.NewReader("1\r1\r"), io.Discard, plainRenderer())

		// When: the console runs
		err := runConsole(context.Background(), t, console)

		// Then: it returns once the input is used up
		require.NoError(t, err)
		assert.Equal(t, 2, manager.CurrentState().Moves)
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		// Given: an input that never delivers a key
		reader, writer := io.Pipe()
		t.Cleanup(func() {
			_ = writer.Close()
		})

		console := New(logger, newTestManager(t, 7, 6), reader, io.Discard, plainRenderer())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// When: the console runs with a canceled context
		err := runConsole(ctx, t, console)

		// Then: Run returns without an error
		require.NoError(t, err)
	})
}

func TestConsole_RunLeavesNoGoroutines(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	before := runtime.NumGoroutine()

	// Given: input that keeps going after the quit key
	for i := 0; i < 5; i++ {
		console := New(logger, newTestManager(t, 7, 6), strings.NewReader("q1\r2\r3\r"), io.Discard, plainRenderer())

		// When: the console quits
		require.NoError(t, runConsole(context.Background(), t, console))
	}

	// Then: the input readers have finished
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+1
	}, 5*time.Second, 50*time.Millisecond)
}
