package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const requestTimeout = 30 * time.Second

func NewRouter(logger *slog.Logger, JWTService jwt.Service, allowedOrigins []string, workingTimeHandler WorkingTimeHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(requestTimeout))
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/workingtime", func(r chi.Router) {
				r.Get("/", workingTimeHandler.List)
				r.Post("/", workingTimeHandler.Create)
				r.Get("/current", workingTimeHandler.Current)

				r.Route("/actions", func(r chi.Router) {
					r.Post("/checkin", workingTimeHandler.Checkin)
					r.Post("/checkout", workingTimeHandler.Checkout)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", workingTimeHandler.Get)
					r.Put("/", workingTimeHandler.Update)
					r.Delete("/", workingTimeHandler.Delete)
				})
			})
		})
	})
	return r
}
