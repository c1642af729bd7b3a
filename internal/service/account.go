package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"radar-backend/internal/model"
	"radar-backend/internal/repository"
)

// AccountService handles registration, authentication and profile
// operations. Passwords are stored as bcrypt hashes.
type AccountService struct {
	users *repository.UserRepository
	games *repository.GameRepository
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(users *repository.UserRepository, games *repository.GameRepository) *AccountService {
	return &AccountService{users: users, games: games}
}

// Register creates a new account with a hashed password and an empty wallet.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, name, email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies email/password and returns the account.
// A missing account and a wrong password are indistinguishable to the
// caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// GetUser retrieves an account by id.
func (s *AccountService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SelectGame records which prize the user is currently playing for.
func (s *AccountService) SelectGame(ctx context.Context, userID, gameID int64) error {
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	if err := s.users.SetSelectedGame(ctx, userID, gameID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}
