package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"radar-backend/internal/middleware"
	"radar-backend/internal/model"
)

// GameResponse is one catalogue entry with the caller's progress on it.
type GameResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	PriceToPlay float64        `json:"price_to_play"`
	ImagePath   string         `json:"image_path"`
	DrawNumber  string         `json:"draw_number"`
	IsEnabled   bool           `json:"is_enabled"`
	Progress    model.Progress `json:"progress"`
}

// ListGames returns the prize catalogue with the authenticated user's
// progress on each game.
//
// GET /api/games
func (h *Handler) ListGames(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	games, err := h.games.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list games")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		progress, err := h.scans.ProgressFor(c.Context(), userID, game)
		if err != nil {
			log.Error().Err(err).Int64("game_id", game.ID).Msg("Failed to load progress")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		response = append(response, GameResponse{
			ID:          game.ID,
			Name:        game.Name,
			Price:       game.Price.InexactFloat64(),
			PriceToPlay: game.PriceToPlay.InexactFloat64(),
			ImagePath:   game.ImagePath,
			DrawNumber:  game.DrawNumber,
			IsEnabled:   game.IsEnabled,
			Progress:    *progress,
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
