package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]entity.GameState
}

// NewInMemoryGameRepository is used when no Redis is configured. Snapshots
// live as long as the process.
func NewInMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]entity.GameState),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.GameState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.GameState, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	clone := game.Clone()

	return &clone, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}
