package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/middleware"
	"github.com/Dosada05/bracket-engine/services"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Brackets  *handlers.BracketHandler
	Pools     *handlers.PoolHandler
	Schedules *handlers.ScheduleHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, jwtSecret string, allowedOrigins []string, logger *slog.Logger) {
	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Get("/ws/brackets/{setID}", h.WebSocket.ServeBracket)
	router.Get("/ws/pools/{stageID}", h.WebSocket.ServePools)

	authenticated := func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))
		r.Use(middleware.Authorize(services.RoleOrganizer))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/validate", h.Schedules.Validate)
		r.Post("/schedules/rotating-partners", h.Schedules.RotatingPartners)

		r.Route("/brackets", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/", h.Brackets.Create)
			})

			r.Route("/{setID}", func(r chi.Router) {
				r.Get("/", h.Brackets.Get)
				r.Get("/progress", h.Brackets.Progress)
				r.Get("/next", h.Brackets.Next)
				r.Get("/qr", h.Brackets.QRCode)

				r.Group(func(r chi.Router) {
					authenticated(r)
					r.Post("/matches/{matchID}/start", h.Brackets.StartMatch)
					r.Post("/matches/{matchID}/result", h.Brackets.RecordResult)
				})
			})
		})

		r.Route("/pools", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/", h.Pools.Create)
			})

			r.Route("/{stageID}", func(r chi.Router) {
				r.Get("/", h.Pools.Get)
				r.Get("/standings", h.Pools.Standings)

				r.Group(func(r chi.Router) {
					authenticated(r)
					r.Post("/pools/{poolID}/matches/{matchID}/start", h.Pools.StartMatch)
					r.Post("/pools/{poolID}/matches/{matchID}/result", h.Pools.RecordResult)
					r.Post("/advance", h.Pools.Advance)
				})
			})
		})
	})
}
