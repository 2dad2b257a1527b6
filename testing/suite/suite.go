package suite

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

const (
	containerTTL = 120
	startTimeout = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// gameKeyPrefix matches the keys the Redis game repository writes.
const gameKeyPrefix = "game:"

// Suite - a throwaway Redis holding saved games, one per test.
type Suite struct {
	*testing.T

	Storage *redis.Client
}

// New - starts Redis in docker. Tests are skipped when docker is unavailable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, resource := runRedis(t)

	client := connect(ctx, t, pool, resource)

	t.Cleanup(func() {
		_ = client.Close()

		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Storage: client,
	}
}

// SavedGame - reads a snapshot straight from Redis, bypassing the repository.
func (that *Suite) SavedGame(ctx context.Context, id string) (*entity.GameState, bool) {
	that.Helper()

	raw, err := that.Storage.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}

	if err != nil {
		that.Fatalf("could not read game %q: %v", id, err)
	}

	var game entity.GameState
	if err = json.Unmarshal(raw, &game); err != nil {
		that.Fatalf("game %q is not valid json: %v", id, err)
	}

	return &game, true
}

// PutRawGame - stores any value under a game key, e.g. a snapshot no repository would write.
func (that *Suite) PutRawGame(ctx context.Context, id, raw string) {
	that.Helper()

	if err := that.Storage.Set(ctx, gameKeyPrefix+id, raw, 0).Err(); err != nil {
		that.Fatalf("could not store game %q: %v", id, err)
	}
}

// SavedGameIDs - ids of every stored game.
func (that *Suite) SavedGameIDs(ctx context.Context) []string {
	that.Helper()

	keys, err := that.Storage.Keys(ctx, gameKeyPrefix+"*").Result()
	if err != nil {
		that.Fatalf("could not list games: %v", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, gameKeyPrefix))
	}

	return ids
}

func runRedis(t *testing.T) (*dockertest.Pool, *dockertest.Resource) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	// hard kill if cleanup never runs
	_ = resource.Expire(containerTTL)

	pool.MaxWait = startTimeout

	return pool, resource
}

// connect - retries until the container accepts connections, then empties it.
func connect(ctx context.Context, t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: resource.GetHostPort(redisPort),
	})

	if err := pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		_ = pool.Purge(resource)

		t.Fatalf("could not connect to redis: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}

	return client
}
