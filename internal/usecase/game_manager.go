package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/connectfour"
	"github.com/rocketscienceinc/connectfour/internal/entity"
	"github.com/rocketscienceinc/connectfour/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager drives one game session and keeps its live snapshot in the
// repository. Finished games are not kept.
type GameManager struct {
	logger   *slog.Logger
	engine   *connectfour.Engine
	gameRepo gameRepo

	// moves in the stored snapshot, 0 when nothing is stored
	savedMoves int
}

func NewGameManager(logger *slog.Logger, engine *connectfour.Engine, gameRepo gameRepo) *GameManager {
	state := engine.CurrentState()

	return &GameManager{
		logger:   logger.With("component", "game_manager", "game_id", state.ID),
		engine:   engine,
		gameRepo: gameRepo,
	}
}

// Resume - continues the saved game if there is one, otherwise starts fresh.
func (that *GameManager) Resume(ctx context.Context) (entity.GameState, error) {
	log := that.logger.With("method", "Resume")

	gameID := that.engine.CurrentState().ID

	saved, err := that.gameRepo.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		log.Info("no saved game, starting a new one")
		return that.engine.Reset(), nil
	}

	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to get saved game: %w", err)
	}

	if saved.Board == nil || saved.Board.Width != that.engine.Width() || saved.Board.Height != that.engine.Height() {
		log.Warn("saved game has different dimensions, starting a new one")
		return that.Reset(ctx)
	}

	engine, err := connectfour.RestoreEngine(*saved)
	if errors.Is(err, apperror.ErrCorruptedState) {
		log.Warn("saved game is corrupted, starting a new one", "error", err)
		return that.Reset(ctx)
	}

	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to restore game: %w", err)
	}

	that.engine = engine
	state := engine.CurrentState()
	that.savedMoves = state.Moves

	log.Info("resumed saved game", "moves", state.Moves, "current_player", state.CurrentPlayer.String())

	return state, nil
}

// DropPiece - applies the move and updates the saved snapshot. Rejected moves
// are returned as they are so callers can match them with errors.Is.
func (that *GameManager) DropPiece(ctx context.Context, column int) (entity.MoveResult, error) {
	log := that.logger.With("method", "DropPiece", "column", column)

	result, err := that.engine.DropPiece(column)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return entity.MoveResult{}, err
	}

	switch result.Outcome {
	case entity.OutcomeWin:
		log.Info("game won", "winner", result.Winner.String(), "line", result.WinningLine)
		that.deleteGame(ctx)
	case entity.OutcomeTie:
		log.Info("game tied")
		that.deleteGame(ctx)
	default:
		state := that.engine.CurrentState()
		if err = that.gameRepo.CreateOrUpdate(ctx, &state); err != nil {
			log.Warn("saved game is behind the board", "moves", state.Moves, "saved_moves", that.savedMoves, "error", err)
			return result, fmt.Errorf("failed to save game: %w", err)
		}

		that.savedMoves = state.Moves

		log.Debug("move accepted", "row", result.Placed.Row, "next_player", result.NextPlayer.String())
	}

	return result, nil
}

// Reset - starts a new game and drops the saved snapshot.
func (that *GameManager) Reset(ctx context.Context) (entity.GameState, error) {
	state := that.engine.Reset()

	if err := that.gameRepo.DeleteByID(ctx, state.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return state, fmt.Errorf("failed to delete saved game: %w", err)
	}

	that.savedMoves = 0

	that.logger.Info("game reset")

	return state, nil
}

func (that *GameManager) CurrentState() entity.GameState {
	return that.engine.CurrentState()
}

func (that *GameManager) AvailableColumns() []int {
	return that.engine.AvailableColumns()
}

func (that *GameManager) deleteGame(ctx context.Context) {
	log := that.logger.With("method", "deleteGame")

	gameID := that.engine.CurrentState().ID
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
		return
	}

	that.savedMoves = 0

	log.Debug("saved game deleted")
}
