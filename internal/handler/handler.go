// Package handler implements the HTTP API.
package handler

import (
	"github.com/gofiber/fiber/v2"

	"radar-backend/internal/auth"
	"radar-backend/internal/middleware"
	"radar-backend/internal/monitor"
	"radar-backend/internal/service"
)

// Handler wires the services into fiber routes.
type Handler struct {
	accounts *service.AccountService
	games    *service.GameService
	scans    *service.ScanService
	wallets  *service.WalletService
	settings *service.SettingsService
	winners  *service.WinnerService
	tokens   *auth.Manager
	monitor  *monitor.Monitor
}

// New creates a new Handler instance.
func New(
	accounts *service.AccountService,
	games *service.GameService,
	scans *service.ScanService,
	wallets *service.WalletService,
	settings *service.SettingsService,
	winners *service.WinnerService,
	tokens *auth.Manager,
	mon *monitor.Monitor,
) *Handler {
	return &Handler{
		accounts: accounts,
		games:    games,
		scans:    scans,
		wallets:  wallets,
		settings: settings,
		winners:  winners,
		tokens:   tokens,
		monitor:  mon,
	}
}

// RegisterRoutes attaches all API routes to the app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/user/register", h.Register)
	api.Post("/user/login", h.Login)
	api.Get("/radar/status", h.RadarStatus)
	api.Get("/winners", h.ListWinners)

	authed := api.Group("", middleware.Auth(h.tokens))
	authed.Post("/games/:id/scan", h.Scan)
	authed.Get("/games", h.ListGames)
	authed.Post("/user/password", h.ChangePassword)
	authed.Get("/user/balance", h.Balance)
	authed.Put("/user/game", h.SelectGame)

	admin := api.Group("/admin", middleware.Auth(h.tokens), middleware.AdminOnly())
	admin.Put("/settings/scans", h.SetScansEnabled)
	admin.Post("/games", h.CreateGame)
	admin.Put("/games/:id/enabled", h.SetGameEnabled)
	admin.Post("/users/:id/credit", h.CreditUser)
	admin.Post("/winners", h.CreateWinner)
}
