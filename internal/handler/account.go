package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"radar-backend/internal/middleware"
	"radar-backend/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type SelectGameRequest struct {
	GameID int64 `json:"game_id"`
}

// Register creates an account and returns a signed token.
//
// POST /api/user/register
func (h *Handler) Register(c *fiber.Ctx) error {
	var request RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if request.Name == "" || request.Email == "" || request.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name, email and password are required",
		})
	}

	user, err := h.accounts.Register(c.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "email already registered",
			})
		}
		log.Error().Err(err).Msg("Failed to register user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	token, err := h.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
	})
}

// Login authenticates by email and password and returns a signed token.
//
// POST /api/user/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := h.accounts.Authenticate(c.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid email or password",
			})
		}
		log.Error().Err(err).Msg("Failed to authenticate user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	token, err := h.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// ChangePassword replaces the caller's password after verifying the
// current one.
//
// POST /api/user/password
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var request ChangePasswordRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if request.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "new password is required",
		})
	}

	userID := middleware.UserID(c)
	if err := h.accounts.ChangePassword(c.Context(), userID, request.OldPassword, request.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "current password is incorrect",
			})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		default:
			log.Error().Err(err).Msg("Failed to change password")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// Balance returns the caller's wallet balance.
//
// GET /api/user/balance
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	balance, err := h.wallets.Balance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		log.Error().Err(err).Msg("Failed to get balance")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"balance": balance.InexactFloat64(),
	})
}

// SelectGame records which prize the caller is currently playing for.
//
// PUT /api/user/game
func (h *Handler) SelectGame(c *fiber.Ctx) error {
	var request SelectGameRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	userID := middleware.UserID(c)
	if err := h.accounts.SelectGame(c.Context(), userID, request.GameID); err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "game not found",
			})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		default:
			log.Error().Err(err).Msg("Failed to select game")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
