package repository

import (
	"context"
	"fmt"

	"radar-backend/internal/model"
)

// WinnerRepository handles recorded grand-prize winners. Entries are
// created by admin actions and publicly listed.
type WinnerRepository struct {
	db DB
}

// NewWinnerRepository creates a new WinnerRepository instance.
func NewWinnerRepository(db DB) *WinnerRepository {
	return &WinnerRepository{db: db}
}

// Create records a winner.
func (r *WinnerRepository) Create(ctx context.Context, gameName, userName string) (*model.Winner, error) {
	const query = `
		INSERT INTO winners (game_name, user_name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, game_name, user_name, created_at
	`

	var winner model.Winner
	err := r.db.QueryRow(ctx, query, gameName, userName).Scan(
		&winner.ID,
		&winner.GameName,
		&winner.UserName,
		&winner.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create winner: %w", err)
	}

	return &winner, nil
}

// List retrieves all recorded winners, newest first.
func (r *WinnerRepository) List(ctx context.Context) ([]*model.Winner, error) {
	const query = `
		SELECT id, game_name, user_name, created_at
		FROM winners
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	defer rows.Close()

	var winners []*model.Winner
	for rows.Next() {
		var winner model.Winner
		if err := rows.Scan(&winner.ID, &winner.GameName, &winner.UserName, &winner.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &winner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating winners: %w", err)
	}

	return winners, nil
}
