package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"radar-backend/internal/game/radar"
	"radar-backend/internal/model"
	"radar-backend/internal/pkg/lock"
	"radar-backend/internal/repository"
)

// ScanService coordinates one scan attempt: it validates preconditions,
// runs the progression engine, and applies the ledger mutations plus the
// audit record as a single database transaction. Attempts on the same
// (user, game) key are serialized with a bounded wait; independent keys
// run fully in parallel.
type ScanService struct {
	pool     *pgxpool.Pool
	users    *repository.UserRepository
	games    *repository.GameRepository
	stats    *repository.StatRepository
	scans    *repository.ScanRepository
	settings *repository.SettingRepository
	engine   *radar.Engine
	locks    *lock.KeyedLock
	lockWait time.Duration
}

// NewScanService creates a new ScanService instance.
func NewScanService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	games *repository.GameRepository,
	stats *repository.StatRepository,
	scans *repository.ScanRepository,
	settings *repository.SettingRepository,
	engine *radar.Engine,
	locks *lock.KeyedLock,
	lockWait time.Duration,
) *ScanService {
	return &ScanService{
		pool:     pool,
		users:    users,
		games:    games,
		stats:    stats,
		scans:    scans,
		settings: settings,
		engine:   engine,
		locks:    locks,
		lockWait: lockWait,
	}
}

// AttemptScan performs one paid scan attempt for the user on the game.
//
// Preconditions are checked in order, each failing fast with no
// mutation: global kill switch, game enabled, wallet covers the cost.
// The transactional body is all-or-nothing; if anything fails after the
// debit the whole attempt rolls back, including the audit record.
func (s *ScanService) AttemptScan(ctx context.Context, userID, gameID int64) (*model.ScanResult, error) {
	enabled, err := s.settings.Bool(ctx, model.SettingScansEnabled, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read kill switch: %w", err)
	}
	if !enabled {
		return nil, ErrScansDisabled
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if !game.IsEnabled {
		return nil, ErrGameDisabled
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.WalletBalance.LessThan(game.PriceToPlay) {
		return nil, ErrInsufficientFunds
	}

	key := lock.Key{UserID: userID, GameID: gameID}
	if err := s.locks.Acquire(ctx, key, s.lockWait); err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return nil, ErrContention
		}
		return nil, err
	}
	defer s.locks.Unlock(key)

	result, err := s.runScanTx(ctx, userID, game)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("game_id", gameID).
		Bool("success", result.Success).
		Int("radar_level", result.Progress.RadarLevel).
		Msg("Scan attempt completed")

	return result, nil
}

// runScanTx executes the transactional body of one attempt.
func (s *ScanService) runScanTx(ctx context.Context, userID int64, game *model.Game) (*model.ScanResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin scan transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	usersTx := s.users.WithTx(tx)
	statsTx := s.stats.WithTx(tx)
	scansTx := s.scans.WithTx(tx)

	// Pin the wallet row first so concurrent attempts from other
	// processes cannot pass the balance check against a stale read.
	user, err := usersTx.GetByIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	cost := game.PriceToPlay
	if user.WalletBalance.LessThan(cost) {
		return nil, ErrInsufficientFunds
	}

	balance, err := usersTx.Debit(ctx, userID, cost)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	stat, err := statsTx.GetOrCreateForUpdate(ctx, userID, game.ID)
	if err != nil {
		return nil, err
	}

	stat.AmountSpent = stat.AmountSpent.Add(cost)
	outcome := s.engine.Advance(stat)

	if err := statsTx.Update(ctx, stat); err != nil {
		return nil, err
	}

	if _, err := scansTx.Create(ctx, userID, game.ID, outcome.Success, stat.CurrentRadar, cost); err != nil {
		return nil, err
	}

	canWin, err := canUserWinFinal(ctx, statsTx, game, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit scan transaction: %w", err)
	}

	return &model.ScanResult{
		Success: outcome.Success,
		Progress: model.Progress{
			RadarLevel:  stat.CurrentRadar,
			FailedScans: stat.FailedScans,
			Successful:  stat.SuccessfulScans,
			AmountSpent: stat.AmountSpent.InexactFloat64(),
			CanWinFinal: canWin,
		},
		Wallet: balance.InexactFloat64(),
	}, nil
}

// ProgressFor returns the user's progress snapshot for a game, creating
// the zeroed stat row on first sight of the pair.
func (s *ScanService) ProgressFor(ctx context.Context, userID int64, game *model.Game) (*model.Progress, error) {
	stat, err := s.stats.GetOrCreate(ctx, userID, game.ID)
	if err != nil {
		return nil, err
	}

	canWin, err := canUserWinFinal(ctx, s.stats, game, userID)
	if err != nil {
		return nil, err
	}

	return &model.Progress{
		RadarLevel:  stat.CurrentRadar,
		FailedScans: stat.FailedScans,
		Successful:  stat.SuccessfulScans,
		AmountSpent: stat.AmountSpent.InexactFloat64(),
		CanWinFinal: canWin,
	}, nil
}

// canUserWinFinal reports grand-prize eligibility: the pot must have
// reached the game's configured minimum AND the user must be among the
// top-3 individual spenders (ties broken by lowest user id).
func canUserWinFinal(ctx context.Context, stats *repository.StatRepository, game *model.Game, userID int64) (bool, error) {
	pot, err := stats.PotTotal(ctx, game.ID)
	if err != nil {
		return false, err
	}
	if pot.LessThan(game.MinimumAmountForWinning) {
		return false, nil
	}

	ranks, err := stats.TopSpenders(ctx, game.ID, 3)
	if err != nil {
		return false, err
	}
	for _, rank := range ranks {
		if rank.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
