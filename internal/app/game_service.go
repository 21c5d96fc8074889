package app

import (
	"context"
	"fmt"

	"food-quiz-service/internal/domain"
	"food-quiz-service/internal/quiz"
)

// GameRepository abstracts where hosted games live (in-memory, Redis-marked, etc).
type GameRepository interface {
	Put(playerID string, game *Game)
	Get(playerID string) (*Game, bool)
	Delete(playerID string)
}

// GameService hosts one game per player.
type GameService struct {
	games   GameRepository
	catalog quiz.Catalog
	opts    GameOptions
}

// NewGameService builds a service whose games share catalog and opts.
// opts.Rand is ignored; every game gets its own source.
func NewGameService(games GameRepository, catalog quiz.Catalog, opts GameOptions) *GameService {
	opts.Rand = nil
	return &GameService{games: games, catalog: catalog, opts: opts}
}

// Join starts a fresh game for playerID, replacing any previous one.
func (s *GameService) Join(ctx context.Context, playerID string, events EngineEvents) (*Game, error) {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	game, err := NewGame(playerID, s.catalog, categories, events, s.opts)
	if err != nil {
		return nil, err
	}
	if err := game.Start(ctx); err != nil {
		return nil, err
	}
	if old, ok := s.games.Get(playerID); ok {
		old.Stop()
	}
	s.games.Put(playerID, game)
	return game, nil
}

// Game returns the hosted game for playerID.
func (s *GameService) Game(playerID string) (*Game, error) {
	game, ok := s.games.Get(playerID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

// Leave stops and drops the player's game. Only the given game is removed,
// so a stale connection cannot drop a newer one.
func (s *GameService) Leave(_ context.Context, playerID string, game *Game) {
	current, ok := s.games.Get(playerID)
	if !ok {
		return
	}
	if game != nil && current != game {
		game.Stop()
		return
	}
	current.Stop()
	s.games.Delete(playerID)
}
