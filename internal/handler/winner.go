package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type CreateWinnerRequest struct {
	GameName string `json:"game_name"`
	UserName string `json:"user_name"`
}

type WinnerResponse struct {
	ID        int64     `json:"id"`
	GameName  string    `json:"game_name"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListWinners returns the recorded grand-prize winners, newest first.
//
// GET /api/winners
func (h *Handler) ListWinners(c *fiber.Ctx) error {
	winners, err := h.winners.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list winners")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	response := make([]WinnerResponse, 0, len(winners))
	for _, winner := range winners {
		response = append(response, WinnerResponse{
			ID:        winner.ID,
			GameName:  winner.GameName,
			UserName:  winner.UserName,
			CreatedAt: winner.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// CreateWinner records a grand-prize winner.
//
// POST /api/admin/winners
func (h *Handler) CreateWinner(c *fiber.Ctx) error {
	var request CreateWinnerRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if request.GameName == "" || request.UserName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "game_name and user_name are required",
		})
	}

	winner, err := h.winners.Record(c.Context(), request.GameName, request.UserName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to record winner")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(WinnerResponse{
		ID:        winner.ID,
		GameName:  winner.GameName,
		UserName:  winner.UserName,
		CreatedAt: winner.CreatedAt,
	})
}
