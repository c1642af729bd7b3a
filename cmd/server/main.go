// Package main is the entry point for the radar promotion backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"radar-backend/internal/auth"
	"radar-backend/internal/config"
	"radar-backend/internal/game/radar"
	"radar-backend/internal/handler"
	"radar-backend/internal/monitor"
	"radar-backend/internal/pkg/db"
	"radar-backend/internal/pkg/lock"
	"radar-backend/internal/repository"
	"radar-backend/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	gameRepo := repository.NewGameRepository(dbPool.Pool)
	statRepo := repository.NewStatRepository(dbPool.Pool)
	scanRepo := repository.NewScanRepository(dbPool.Pool)
	settingRepo := repository.NewSettingRepository(dbPool.Pool)
	winnerRepo := repository.NewWinnerRepository(dbPool.Pool)

	// Initialize services
	accountService := service.NewAccountService(userRepo, gameRepo)
	gameService := service.NewGameService(gameRepo)
	walletService := service.NewWalletService(userRepo)
	settingsService := service.NewSettingsService(settingRepo)
	winnerService := service.NewWinnerService(winnerRepo)

	scanLocks := lock.NewKeyedLock()
	engine := radar.New(radar.DefaultSource())

	scanService := service.NewScanService(
		dbPool.Pool,
		userRepo,
		gameRepo,
		statRepo,
		scanRepo,
		settingRepo,
		engine,
		scanLocks,
		cfg.Scan.LockWait,
	)

	// Initialize token manager
	tokenManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Start metrics listener
	mon := monitor.NewMonitor("radar")
	mon.StartServer(cfg.Metrics.Address)

	// Initialize HTTP server
	app := fiber.New(fiber.Config{
		AppName:      "radar-backend",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	h := handler.New(
		accountService,
		gameService,
		scanService,
		walletService,
		settingsService,
		winnerService,
		tokenManager,
		mon,
	)
	h.RegisterRoutes(app)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server is starting...")
		if err := app.Listen(cfg.Server.Address); err != nil {
			log.Fatal().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
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
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create games table
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
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: games table created")

	// Migration 3: Create game_user_stats table. The unique pair index is
	// what makes lazy stat creation race-safe.
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
		);
		CREATE INDEX IF NOT EXISTS idx_stats_game_spent ON game_user_stats(game_id, amount_spent DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: game_user_stats table created")

	// Migration 4: Create scans audit table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scans (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			success BOOLEAN NOT NULL,
			radar_level INT NOT NULL,
			cost NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_scans_user_time ON scans(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: scans table created")

	// Migration 5: Create winners table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS winners (
			id BIGSERIAL PRIMARY KEY,
			game_name VARCHAR(255) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: winners table created")

	// Migration 6: Create system_settings table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS system_settings (
			key VARCHAR(255) PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: system_settings table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
