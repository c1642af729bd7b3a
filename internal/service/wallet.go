package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"radar-backend/internal/repository"
)

// WalletService handles wallet top-ups. Credits are the only increment
// path into a wallet; debits belong exclusively to the scan transaction.
type WalletService struct {
	users *repository.UserRepository
}

// NewWalletService creates a new WalletService instance.
func NewWalletService(users *repository.UserRepository) *WalletService {
	return &WalletService{users: users}
}

// Credit adds funds to a user's wallet and returns the new balance.
func (s *WalletService) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	balance, err := s.users.Credit(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("amount", amount.String()).
		Str("balance", balance.String()).
		Msg("Wallet credited")

	return balance, nil
}

// Balance returns the user's current wallet balance.
func (s *WalletService) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, err
	}
	return user.WalletBalance, nil
}
