// Package model defines the data models for the radar promotion service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a player account with a wallet balance.
// The wallet is decremented only by the scan transaction and incremented
// only by the admin credit operation.
type User struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	PasswordHash  string          `db:"password_hash"`
	WalletBalance decimal.Decimal `db:"wallet_balance"`
	GameID        *int64          `db:"game_id"` // currently selected prize, if any
	IsAdmin       bool            `db:"is_admin"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Game is an admin-configured prize. Scan logic reads it, never writes it.
type Game struct {
	ID                      int64           `db:"id"`
	Name                    string          `db:"name"`
	Price                   decimal.Decimal `db:"price"`
	PriceToPlay             decimal.Decimal `db:"price_to_play"`
	MinimumAmountForWinning decimal.Decimal `db:"minimum_amount_for_winning"`
	ImagePath               string          `db:"image_path"`
	DrawNumber              string          `db:"draw_number"`
	IsEnabled               bool            `db:"is_enabled"`
	CreatedAt               time.Time       `db:"created_at"`
	UpdatedAt               time.Time       `db:"updated_at"`
}

// MaxRadarLevel is the top of the radar progression track.
const MaxRadarLevel = 6

// GameUserStat is the per (user, game) progression record, created lazily
// on the first scan. Exactly one row exists per pair.
type GameUserStat struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	GameID          int64           `db:"game_id"`
	CurrentRadar    int             `db:"current_radar"` // 0..6, never decreases
	FailedScans     int             `db:"failed_scans"`
	SuccessfulScans int             `db:"successful_scans"`
	AmountSpent     decimal.Decimal `db:"amount_spent"`
	FailsInLevel    int             `db:"fails_in_level"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// Scan is the immutable audit record of one paid attempt.
type Scan struct {
	ID         int64           `db:"id"`
	UserID     int64           `db:"user_id"`
	GameID     int64           `db:"game_id"`
	Success    bool            `db:"success"`
	RadarLevel int             `db:"radar_level"`
	Cost       decimal.Decimal `db:"cost"`
	CreatedAt  time.Time       `db:"created_at"`
}

// Winner is a recorded grand-prize winner, created by admins.
type Winner struct {
	ID        int64     `db:"id"`
	GameName  string    `db:"game_name"`
	UserName  string    `db:"user_name"`
	CreatedAt time.Time `db:"created_at"`
}

// SpenderRank is one row of the per-game spending leaderboard.
type SpenderRank struct {
	UserID      int64           `db:"user_id"`
	AmountSpent decimal.Decimal `db:"amount_spent"`
}

// Progress is the per-user, per-game snapshot returned to clients.
type Progress struct {
	RadarLevel  int     `json:"radar_level"`
	FailedScans int     `json:"failed_scans"`
	Successful  int     `json:"successful"`
	AmountSpent float64 `json:"amount_spent"`
	CanWinFinal bool    `json:"can_win_final"`
}

// ScanResult is the outcome of one scan attempt.
type ScanResult struct {
	Success  bool     `json:"success"`
	Progress Progress `json:"progress"`
	Wallet   float64  `json:"wallet"`
}

// System setting keys.
const (
	SettingScansEnabled = "scans_enabled"
)
