package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"radar-backend/internal/model"
)

const statColumns = `id, user_id, game_id, current_radar, failed_scans, successful_scans, amount_spent, fails_in_level, created_at, updated_at`

// StatRepository handles the per (user, game) progression records.
// A UNIQUE(user_id, game_id) constraint plus insert-on-conflict keeps
// row creation idempotent under racing first scans.
type StatRepository struct {
	db DB
}

// NewStatRepository creates a new StatRepository instance.
func NewStatRepository(db DB) *StatRepository {
	return &StatRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *StatRepository) WithTx(tx pgx.Tx) *StatRepository {
	return &StatRepository{db: tx}
}

func scanStat(row pgx.Row) (*model.GameUserStat, error) {
	var stat model.GameUserStat
	err := row.Scan(
		&stat.ID,
		&stat.UserID,
		&stat.GameID,
		&stat.CurrentRadar,
		&stat.FailedScans,
		&stat.SuccessfulScans,
		&stat.AmountSpent,
		&stat.FailsInLevel,
		&stat.CreatedAt,
		&stat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// ensure inserts the row if it does not exist yet. Concurrent callers
// for the same pair cannot create duplicates.
func (r *StatRepository) ensure(ctx context.Context, userID, gameID int64) error {
	const query = `
		INSERT INTO game_user_stats (user_id, game_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id, game_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, gameID); err != nil {
		return fmt.Errorf("failed to ensure stat row: %w", err)
	}
	return nil
}

// GetOrCreate returns the stat row for (user, game), creating a zeroed
// one on first use.
func (r *StatRepository) GetOrCreate(ctx context.Context, userID, gameID int64) (*model.GameUserStat, error) {
	if err := r.ensure(ctx, userID, gameID); err != nil {
		return nil, err
	}

	const query = `SELECT ` + statColumns + ` FROM game_user_stats WHERE user_id = $1 AND game_id = $2`

	stat, err := scanStat(r.db.QueryRow(ctx, query, userID, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to get stat row: %w", err)
	}

	return stat, nil
}

// GetOrCreateForUpdate is GetOrCreate with a row lock; call it inside a
// transaction to serialize stat mutations against concurrent attempts.
func (r *StatRepository) GetOrCreateForUpdate(ctx context.Context, userID, gameID int64) (*model.GameUserStat, error) {
	if err := r.ensure(ctx, userID, gameID); err != nil {
		return nil, err
	}

	const query = `SELECT ` + statColumns + ` FROM game_user_stats WHERE user_id = $1 AND game_id = $2 FOR UPDATE`

	stat, err := scanStat(r.db.QueryRow(ctx, query, userID, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock stat row: %w", err)
	}

	return stat, nil
}

// Update persists the mutable counters of a stat row.
func (r *StatRepository) Update(ctx context.Context, stat *model.GameUserStat) error {
	const query = `
		UPDATE game_user_stats
		SET current_radar = $2,
		    failed_scans = $3,
		    successful_scans = $4,
		    amount_spent = $5,
		    fails_in_level = $6,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		stat.ID,
		stat.CurrentRadar,
		stat.FailedScans,
		stat.SuccessfulScans,
		stat.AmountSpent,
		stat.FailsInLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to update stat row: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errors.New("stat row disappeared during update")
	}

	return nil
}

// PotTotal returns the cumulative amount_spent across all users for a
// game - the "pot" compared against the minimum winning amount.
func (r *StatRepository) PotTotal(ctx context.Context, gameID int64) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount_spent), 0)
		FROM game_user_stats
		WHERE game_id = $1
	`

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, gameID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pot: %w", err)
	}

	return total, nil
}

// TopSpenders returns the highest individual spenders for a game.
// Ties are broken by lowest user id so the ranking is deterministic.
func (r *StatRepository) TopSpenders(ctx context.Context, gameID int64, limit int) ([]*model.SpenderRank, error) {
	const query = `
		SELECT user_id, amount_spent
		FROM game_user_stats
		WHERE game_id = $1
		ORDER BY amount_spent DESC, user_id ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top spenders: %w", err)
	}
	defer rows.Close()

	var ranks []*model.SpenderRank
	for rows.Next() {
		var rank model.SpenderRank
		if err := rows.Scan(&rank.UserID, &rank.AmountSpent); err != nil {
			return nil, fmt.Errorf("failed to scan spender rank: %w", err)
		}
		ranks = append(ranks, &rank)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spender ranks: %w", err)
	}

	return ranks, nil
}
