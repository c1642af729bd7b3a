package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"radar-backend/internal/middleware"
	"radar-backend/internal/service"
)

// Scan runs one paid scan attempt for the authenticated user.
//
// POST /api/games/:id/scan
func (h *Handler) Scan(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid game id",
		})
	}

	userID := middleware.UserID(c)
	h.monitor.IncScanAttempts()
	start := time.Now()

	result, err := h.scans.AttemptScan(c.Context(), userID, int64(gameID))
	h.monitor.ObserveScanDuration(time.Since(start))
	if err != nil {
		return h.scanError(c, err)
	}

	if result.Success {
		h.monitor.IncScanSuccesses()
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// scanError maps service errors to HTTP statuses. Unknown errors are
// logged and returned as 500 without detail.
func (h *Handler) scanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrScansDisabled):
		h.monitor.IncScanRejected("radar_offline")
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error": "radar is offline",
		})
	case errors.Is(err, service.ErrGameDisabled):
		h.monitor.IncScanRejected("game_disabled")
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error": "game is disabled",
		})
	case errors.Is(err, service.ErrInsufficientFunds):
		h.monitor.IncScanRejected("insufficient_funds")
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": "insufficient wallet balance",
		})
	case errors.Is(err, service.ErrContention):
		h.monitor.IncScanRejected("contention")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "another scan is in progress, retry",
		})
	case errors.Is(err, service.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "game not found",
		})
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	default:
		log.Error().Err(err).Msg("Scan attempt failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// RadarStatus reports whether scans are globally enabled.
//
// GET /api/radar/status
func (h *Handler) RadarStatus(c *fiber.Ctx) error {
	online, err := h.settings.ScansEnabled(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read radar status")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"online": online,
	})
}
