package memory

import (
	"sync"

	"food-quiz-service/internal/app"
)

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*app.Game),
	}
}

func (s *GameStore) Put(playerID string, game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[playerID] = game
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
	delete(s.games, playerID)
}
