package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"radar-backend/internal/model"
)

const gameColumns = `id, name, price, price_to_play, minimum_amount_for_winning, image_path, draw_number, is_enabled, created_at, updated_at`

// GameRepository handles prize configuration persistence. Games are
// owned by admin tooling; scan logic only ever reads them.
type GameRepository struct {
	db DB
}

// NewGameRepository creates a new GameRepository instance.
func NewGameRepository(db DB) *GameRepository {
	return &GameRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *GameRepository) WithTx(tx pgx.Tx) *GameRepository {
	return &GameRepository{db: tx}
}

func scanGame(row pgx.Row) (*model.Game, error) {
	var game model.Game
	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.Price,
		&game.PriceToPlay,
		&game.MinimumAmountForWinning,
		&game.ImagePath,
		&game.DrawNumber,
		&game.IsEnabled,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByID retrieves a game by id.
// Returns ErrGameNotFound if the game does not exist.
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*model.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// List retrieves all games ordered by id.
func (r *GameRepository) List(ctx context.Context) ([]*model.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Create inserts a new prize configuration.
func (r *GameRepository) Create(ctx context.Context, name string, price, priceToPlay, minimumAmountForWinning decimal.Decimal, imagePath, drawNumber string) (*model.Game, error) {
	const query = `
		INSERT INTO games (name, price, price_to_play, minimum_amount_for_winning, image_path, draw_number, is_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING ` + gameColumns

	game, err := scanGame(r.db.QueryRow(ctx, query, name, price, priceToPlay, minimumAmountForWinning, imagePath, drawNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

// SetEnabled toggles whether the game accepts scan attempts.
func (r *GameRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	const query = `
		UPDATE games
		SET is_enabled = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to set game enabled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrGameNotFound
	}

	return nil
}
