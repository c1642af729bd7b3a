package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"radar-backend/internal/model"
	"radar-backend/internal/repository"
)

// GameService manages the prize catalogue.
type GameService struct {
	games *repository.GameRepository
}

// NewGameService creates a new GameService instance.
func NewGameService(games *repository.GameRepository) *GameService {
	return &GameService{games: games}
}

// List returns all configured games.
func (s *GameService) List(ctx context.Context) ([]*model.Game, error) {
	return s.games.List(ctx)
}

// Get returns a single game by id.
func (s *GameService) Get(ctx context.Context, id int64) (*model.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

// Create adds a new prize to the catalogue. New games accept scans
// immediately.
func (s *GameService) Create(ctx context.Context, name string, price, priceToPlay, minimumAmountForWinning decimal.Decimal, imagePath, drawNumber string) (*model.Game, error) {
	if !priceToPlay.IsPositive() {
		return nil, ErrInvalidAmount
	}

	game, err := s.games.Create(ctx, name, price, priceToPlay, minimumAmountForWinning, imagePath, drawNumber)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("game_id", game.ID).Str("name", game.Name).Msg("Game created")
	return game, nil
}

// SetEnabled toggles whether the game accepts scan attempts.
func (s *GameService) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	if err := s.games.SetEnabled(ctx, id, enabled); err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	log.Info().Int64("game_id", id).Bool("enabled", enabled).Msg("Game enabled flag updated")
	return nil
}
