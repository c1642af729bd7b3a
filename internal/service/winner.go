package service

import (
	"context"

	"radar-backend/internal/model"
	"radar-backend/internal/repository"
)

// WinnerService manages the recorded grand-prize winners.
type WinnerService struct {
	winners *repository.WinnerRepository
}

// NewWinnerService creates a new WinnerService instance.
func NewWinnerService(winners *repository.WinnerRepository) *WinnerService {
	return &WinnerService{winners: winners}
}

// Record stores a winner entry.
func (s *WinnerService) Record(ctx context.Context, gameName, userName string) (*model.Winner, error) {
	return s.winners.Create(ctx, gameName, userName)
}

// List returns all recorded winners, newest first.
func (s *WinnerService) List(ctx context.Context) ([]*model.Winner, error) {
	return s.winners.List(ctx)
}
