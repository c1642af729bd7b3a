package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"radar-backend/internal/model"
)

// ScanRepository handles the append-only scan audit trail. Rows are
// never updated or deleted.
type ScanRepository struct {
	db DB
}

// NewScanRepository creates a new ScanRepository instance.
func NewScanRepository(db DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ScanRepository) WithTx(tx pgx.Tx) *ScanRepository {
	return &ScanRepository{db: tx}
}

// Create appends one scan record capturing the outcome of an attempt.
func (r *ScanRepository) Create(ctx context.Context, userID, gameID int64, success bool, radarLevel int, cost decimal.Decimal) (*model.Scan, error) {
	const query = `
		INSERT INTO scans (user_id, game_id, success, radar_level, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, user_id, game_id, success, radar_level, cost, created_at
	`

	var scan model.Scan
	err := r.db.QueryRow(ctx, query, userID, gameID, success, radarLevel, cost).Scan(
		&scan.ID,
		&scan.UserID,
		&scan.GameID,
		&scan.Success,
		&scan.RadarLevel,
		&scan.Cost,
		&scan.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan record: %w", err)
	}

	return &scan, nil
}

// ListByUser retrieves a user's scan history, newest first.
func (r *ScanRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Scan, error) {
	const query = `
		SELECT id, user_id, game_id, success, radar_level, cost, created_at
		FROM scans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []*model.Scan
	for rows.Next() {
		var scan model.Scan
		err := rows.Scan(
			&scan.ID,
			&scan.UserID,
			&scan.GameID,
			&scan.Success,
			&scan.RadarLevel,
			&scan.Cost,
			&scan.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, &scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scans: %w", err)
	}

	return scans, nil
}

// CountByUserAndGame returns how many attempts a user has made on a game.
func (r *ScanRepository) CountByUserAndGame(ctx context.Context, userID, gameID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM scans WHERE user_id = $1 AND game_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}

	return count, nil
}
