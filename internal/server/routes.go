package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/defenceguesser/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(logger, deps.Health).Routes())

	// Admin routes are registered before /api/{profile} so "admin" never
	// resolves as a profile.
	if deps.Admin != nil {
		r.Post("/api/admin/login", handleAdminLogin(logger, deps.Admin))
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(adminAuthMiddleware(deps.Admin))
			r.Get("/me", handleAdminMe())
			r.Get("/profiles", handleAdminListProfiles(logger, deps.Profiles))
			r.Post("/prune", handleAdminPrune(logger, deps.Profiles, deps.RetentionDays))
			r.Delete("/profiles/{profile}/daily", handleAdminResetDaily(logger, deps.Profiles))
		})
	}

	// Player routes, {profile} resolved by profileMiddleware.
	r.Route("/api/{profile}", func(r chi.Router) {
		r.Use(profileMiddleware(deps.Profiles))

		r.Get("/catalog", handleCatalogList())
		r.Get("/catalog/categories", handleCatalogCategories(deps.Catalog.Categories()))
		r.Get("/catalog/{name}", handleCatalogDetail())

		r.Get("/daily", handleDaily())
		r.Get("/daily/events", handleEvents(deps.Broker))
		r.Get("/daily/{dateKey}/leaderboard", handleLeaderboard())

		r.Post("/games", handleCreateGame(logger, deps.Catalog, deps.Games, deps.Matcher, deps.Rounds))
		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Use(gameMiddleware(deps.Games))
			r.Get("/", handleGameState())
			r.Post("/guess", handleGuess(logger, deps.Boundaries))
			r.Post("/bonus", handleBonus(logger))
			r.Post("/bonus/skip", handleBonusSkip(logger))
			r.Post("/next", handleNext(logger, deps.Broker))
			r.Get("/summary", handleSummary(logger))
		})
	})

	r.NotFound(handleNotFound)
	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
