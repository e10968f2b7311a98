package api

import (
	"net/http"

	"github.com/arlo/calcledger/internal/api/handlers"
	"github.com/arlo/calcledger/internal/api/middleware"
	"github.com/arlo/calcledger/internal/config"
	"github.com/arlo/calcledger/internal/service"
	"github.com/arlo/calcledger/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	userHandler := handlers.NewUserHandler(services.Auth)
	calculationHandler := handlers.NewCalculationHandler(services.Calculation)
	eventHandler := handlers.NewEventHandler(services.Calculation)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Public credential routes, rate limited against brute force
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.AuthRatePerMinute, cfg.AuthRateBurst))
				r.Post("/register", userHandler.Register)
				r.Post("/login", userHandler.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", userHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/calculations", func(r chi.Router) {
				r.Post("/", calculationHandler.Create)
				r.Get("/", calculationHandler.List)
				r.Get("/{id}", calculationHandler.Get)
				r.Patch("/{id}", calculationHandler.Update)
				r.Delete("/{id}", calculationHandler.Delete)
			})

			r.Get("/events", eventHandler.List)
		})

		// WebSocket activity feed (token passed as query parameter)
		r.Get("/ws", wsHandler.Handle)
	})

	// Static front-end
	r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))

	return r
}
