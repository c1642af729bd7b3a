// Package repository tests run against a real PostgreSQL instance
// provided by testcontainers-go.
package repository

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"radar-backend/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			wallet_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			game_id BIGINT,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			price_to_play NUMERIC(12,2) NOT NULL,
			minimum_amount_for_winning NUMERIC(12,2) NOT NULL DEFAULT 0,
			image_path VARCHAR(255) NOT NULL DEFAULT '',
			draw_number VARCHAR(255) NOT NULL DEFAULT '',
			is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_user_stats (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			current_radar INT NOT NULL DEFAULT 0,
			failed_scans INT NOT NULL DEFAULT 0,
			successful_scans INT NOT NULL DEFAULT 0,
			amount_spent NUMERIC(12,2) NOT NULL DEFAULT 0,
			fails_in_level INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, game_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scans (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			success BOOLEAN NOT NULL,
			radar_level INT NOT NULL,
			cost NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS winners (
			id BIGSERIAL PRIMARY KEY,
			game_name VARCHAR(255) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS system_settings (
			key VARCHAR(255) PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createTestGame(t *testing.T, pool *pgxpool.Pool, priceToPlay, minWinning int64) *model.Game {
	t.Helper()
	repo := NewGameRepository(pool)
	game, err := repo.Create(
		context.Background(),
		"Test Prize",
		decimal.NewFromInt(1000),
		decimal.NewFromInt(priceToPlay),
		decimal.NewFromInt(minWinning),
		"/img/prize.png",
		"D-001",
	)
	require.NoError(t, err)
	return game
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.WalletBalance.IsZero())
	assert.False(t, user.IsAdmin)
	assert.False(t, user.CreatedAt.IsZero())

	// Duplicate email is rejected
	_, err = repo.Create(ctx, "alice2", "alice@example.com", "hash2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)

	user, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DebitGuardsBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "carol", "carol@example.com", "hash")
	require.NoError(t, err)

	_, err = repo.Credit(ctx, user.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	// Debit within balance
	balance, err := repo.Debit(ctx, user.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(70)), "balance = %s", balance)

	// Debit beyond balance fails and mutates nothing
	_, err = repo.Debit(ctx, user.ID, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	fresh, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fresh.WalletBalance.Equal(decimal.NewFromInt(70)))

	// Debit on missing user is NotFound, not InsufficientFunds
	_, err = repo.Debit(ctx, 99999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Credit(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "dave", "dave@example.com", "hash")
	require.NoError(t, err)

	balance, err := repo.Credit(ctx, user.ID, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("12.50")))

	_, err = repo.Credit(ctx, 99999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_SetSelectedGame(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)

	user, err := repo.Create(ctx, "erin", "erin@example.com", "hash")
	require.NoError(t, err)

	err = repo.SetSelectedGame(ctx, user.ID, game.ID)
	require.NoError(t, err)

	fresh, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.GameID)
	assert.Equal(t, game.ID, *fresh.GameID)
}

// ============================================================================
// GameRepository Tests
// ============================================================================

func TestGameRepository_SetEnabled(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewGameRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)
	assert.True(t, game.IsEnabled)

	err := repo.SetEnabled(ctx, game.ID, false)
	require.NoError(t, err)

	fresh, err := repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsEnabled)

	err = repo.SetEnabled(ctx, 99999, true)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

// ============================================================================
// StatRepository Tests
// ============================================================================

func TestStatRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	statRepo := NewStatRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)
	user, err := userRepo.Create(ctx, "frank", "frank@example.com", "hash")
	require.NoError(t, err)

	stat, err := statRepo.GetOrCreate(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stat.CurrentRadar)
	assert.Equal(t, 0, stat.FailedScans)
	assert.True(t, stat.AmountSpent.IsZero())

	// Second call returns the same row
	again, err := statRepo.GetOrCreate(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, stat.ID, again.ID)
}

func TestStatRepository_GetOrCreateConcurrent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	statRepo := NewStatRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)
	user, err := userRepo.Create(ctx, "grace", "grace@example.com", "hash")
	require.NoError(t, err)

	const workers = 10
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stat, err := statRepo.GetOrCreate(ctx, user.ID, game.ID)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = stat.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "all callers must observe the same row")
	}

	var count int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_user_stats WHERE user_id = $1 AND game_id = $2`,
		user.ID, game.ID,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStatRepository_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	statRepo := NewStatRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)
	user, err := userRepo.Create(ctx, "heidi", "heidi@example.com", "hash")
	require.NoError(t, err)

	stat, err := statRepo.GetOrCreate(ctx, user.ID, game.ID)
	require.NoError(t, err)

	stat.CurrentRadar = 2
	stat.FailedScans = 15
	stat.SuccessfulScans = 2
	stat.FailsInLevel = 3
	stat.AmountSpent = decimal.NewFromInt(170)

	err = statRepo.Update(ctx, stat)
	require.NoError(t, err)

	fresh, err := statRepo.GetOrCreate(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.CurrentRadar)
	assert.Equal(t, 15, fresh.FailedScans)
	assert.Equal(t, 2, fresh.SuccessfulScans)
	assert.Equal(t, 3, fresh.FailsInLevel)
	assert.True(t, fresh.AmountSpent.Equal(decimal.NewFromInt(170)))
}

func TestStatRepository_PotTotalAndTopSpenders(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	statRepo := NewStatRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)

	spend := func(email string, amount int64) int64 {
		user, err := userRepo.Create(ctx, email, email, "hash")
		require.NoError(t, err)
		stat, err := statRepo.GetOrCreate(ctx, user.ID, game.ID)
		require.NoError(t, err)
		stat.AmountSpent = decimal.NewFromInt(amount)
		require.NoError(t, statRepo.Update(ctx, stat))
		return user.ID
	}

	u1 := spend("u1@example.com", 300)
	u2 := spend("u2@example.com", 100)
	u3 := spend("u3@example.com", 500)
	u4 := spend("u4@example.com", 100)

	pot, err := statRepo.PotTotal(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, pot.Equal(decimal.NewFromInt(1000)), "pot = %s", pot)

	// Top 3 by spend, ties broken by lowest user id
	ranks, err := statRepo.TopSpenders(ctx, game.ID, 3)
	require.NoError(t, err)
	require.Len(t, ranks, 3)
	assert.Equal(t, u3, ranks[0].UserID)
	assert.Equal(t, u1, ranks[1].UserID)
	if u2 < u4 {
		assert.Equal(t, u2, ranks[2].UserID)
	} else {
		assert.Equal(t, u4, ranks[2].UserID)
	}
}

func TestStatRepository_PotTotalEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	statRepo := NewStatRepository(pool)
	game := createTestGame(t, pool, 10, 0)

	pot, err := statRepo.PotTotal(context.Background(), game.ID)
	require.NoError(t, err)
	assert.True(t, pot.IsZero())
}

// ============================================================================
// ScanRepository Tests
// ============================================================================

func TestScanRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	scanRepo := NewScanRepository(pool)
	ctx := context.Background()

	game := createTestGame(t, pool, 10, 0)
	user, err := userRepo.Create(ctx, "ivan", "ivan@example.com", "hash")
	require.NoError(t, err)

	cost := decimal.NewFromInt(10)
	_, err = scanRepo.Create(ctx, user.ID, game.ID, false, 0, cost)
	require.NoError(t, err)
	_, err = scanRepo.Create(ctx, user.ID, game.ID, true, 1, cost)
	require.NoError(t, err)

	scans, err := scanRepo.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, scans, 2)

	// Newest first
	assert.True(t, scans[0].Success)
	assert.Equal(t, 1, scans[0].RadarLevel)

	count, err := scanRepo.CountByUserAndGame(ctx, user.ID, game.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

// ============================================================================
// SettingRepository Tests
// ============================================================================

func TestSettingRepository_BoolDefault(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(pool)
	ctx := context.Background()

	// Absent key falls back to the default
	enabled, err := repo.Bool(ctx, model.SettingScansEnabled, true)
	require.NoError(t, err)
	assert.True(t, enabled)

	err = repo.Put(ctx, model.SettingScansEnabled, false)
	require.NoError(t, err)

	enabled, err = repo.Bool(ctx, model.SettingScansEnabled, true)
	require.NoError(t, err)
	assert.False(t, enabled)

	// Upsert overwrites
	err = repo.Put(ctx, model.SettingScansEnabled, true)
	require.NoError(t, err)

	enabled, err = repo.Bool(ctx, model.SettingScansEnabled, false)
	require.NoError(t, err)
	assert.True(t, enabled)
}

// ============================================================================
// WinnerRepository Tests
// ============================================================================

func TestWinnerRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewWinnerRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "Gold Bar", "alice")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "Sports Car", "bob")
	require.NoError(t, err)

	winners, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, winners, 2)

	// Newest first
	assert.Equal(t, second.ID, winners[0].ID)
	assert.Equal(t, "Sports Car", winners[0].GameName)
}
