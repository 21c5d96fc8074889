package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"food-quiz-service/internal/app"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Games hold timers and locks, so they stay in a local map; Redis only
// marks which players have a live game so other instances can see them.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
	}
}

func (s *GameStore) Put(playerID string, game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[playerID] = game
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), game.ID(), s.ttl).Err()
}

func (s *GameStore) Get(playerID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[playerID]
	return game, ok
}

func (s *GameStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[playerID]; !ok {
		return
	}
	delete(s.games, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

func (s *GameStore) key(playerID string) string {
	return "quiz:game:" + playerID
}
