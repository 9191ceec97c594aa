package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/carromhq/tournament-engine/handlers"
	"github.com/carromhq/tournament-engine/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/token", authHandler.Token)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/matches", tournamentHandler.ListMatches)
		r.Get("/{tournamentID}/standings", standingsHandler.All)
		r.Get("/{tournamentID}/standings/{group}", standingsHandler.Group)
		r.Get("/{tournamentID}/champion", tournamentHandler.Champion)

		// Защищенные маршруты только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("admin"))

			r.Post("/", tournamentHandler.Create)
			r.Post("/{tournamentID}/teams", tournamentHandler.RegisterTeams)
			r.Post("/{tournamentID}/groups", tournamentHandler.DivideIntoGroups)
			r.Post("/{tournamentID}/fixtures", tournamentHandler.GenerateGroupFixtures)
			r.Post("/{tournamentID}/schedule", tournamentHandler.ScheduleMatches)
			r.Post("/{tournamentID}/stages/advance", tournamentHandler.AdvanceStage)
			r.Post("/{tournamentID}/stages/reset", tournamentHandler.ResetFromStage)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("admin"))

			r.Post("/{matchID}/result", matchHandler.SubmitResult)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
