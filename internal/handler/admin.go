package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"radar-backend/internal/service"
)

type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

type CreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CreateGameRequest struct {
	Name                    string          `json:"name"`
	Price                   decimal.Decimal `json:"price"`
	PriceToPlay             decimal.Decimal `json:"price_to_play"`
	MinimumAmountForWinning decimal.Decimal `json:"minimum_amount_for_winning"`
	ImagePath               string          `json:"image_path"`
	DrawNumber              string          `json:"draw_number"`
}

// SetScansEnabled flips the global kill switch.
//
// PUT /api/admin/settings/scans
func (h *Handler) SetScansEnabled(c *fiber.Ctx) error {
	var request SetEnabledRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.settings.SetScansEnabled(c.Context(), request.Enabled); err != nil {
		log.Error().Err(err).Msg("Failed to update kill switch")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// CreateGame adds a new prize to the catalogue.
//
// POST /api/admin/games
func (h *Handler) CreateGame(c *fiber.Ctx) error {
	var request CreateGameRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if request.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	game, err := h.games.Create(
		c.Context(),
		request.Name,
		request.Price,
		request.PriceToPlay,
		request.MinimumAmountForWinning,
		request.ImagePath,
		request.DrawNumber,
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "price_to_play must be positive",
			})
		}
		log.Error().Err(err).Msg("Failed to create game")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": game.ID,
	})
}

// SetGameEnabled toggles whether a game accepts scan attempts.
//
// PUT /api/admin/games/:id/enabled
func (h *Handler) SetGameEnabled(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid game id",
		})
	}

	var request SetEnabledRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.games.SetEnabled(c.Context(), int64(gameID), request.Enabled); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "game not found",
			})
		}
		log.Error().Err(err).Msg("Failed to toggle game")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// CreditUser tops up a user's wallet.
//
// POST /api/admin/users/:id/credit
func (h *Handler) CreditUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var request CreditRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	balance, err := h.wallets.Credit(c.Context(), int64(userID), request.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "amount must be positive",
			})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		default:
			log.Error().Err(err).Msg("Failed to credit wallet")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"balance": balance.InexactFloat64(),
	})
}
