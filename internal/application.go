package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connectfour/internal/config"
	"github.com/rocketscienceinc/connectfour/internal/connectfour"
	"github.com/rocketscienceinc/connectfour/internal/console"
	"github.com/rocketscienceinc/connectfour/internal/repository"
	"github.com/rocketscienceinc/connectfour/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config, input io.Reader, output io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	gameRepo, closeRepo, err := openGameRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	engine, err := connectfour.NewEngine(conf.GameID, conf.Board.Width, conf.Board.Height)
	if err != nil {
		return fmt.Errorf("could not create game engine: %w", err)
	}

	gameManager := usecase.NewGameManager(logger, engine, gameRepo)
	if _, err = gameManager.Resume(ctx); err != nil {
		return fmt.Errorf("could not resume game: %w", err)
	}

	log.Info("Starting game", "game_id", conf.GameID, "width", conf.Board.Width, "height", conf.Board.Height)

	gameConsole := console.New(logger, gameManager, input, output, console.NewRenderer(output))
	if err = gameConsole.Run(ctx); err != nil {
		return fmt.Errorf("console error: %w", err)
	}

	return nil
}

// openGameRepository - picks Redis when it is enabled, memory otherwise.
func openGameRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, games are kept in memory")
		return repository.NewInMemoryGameRepository(), func() {}, nil
	}

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewGameRepository(redisStorage), closeStorage, nil
}
