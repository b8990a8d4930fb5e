// Package api wires the HTTP handlers into a chi router and runs the server.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vladimiradmaev/diet-tracker/internal/api/handlers"
	"github.com/vladimiradmaev/diet-tracker/internal/api/middleware"
	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/config"
	"github.com/vladimiradmaev/diet-tracker/internal/logger"
)

// NewRouter builds the API routes.
func NewRouter(cfg config.ServerConfig, deps handlers.Dependencies, log *slog.Logger) http.Handler {
	accounts := handlers.NewAccountHandler(deps.AuthService)
	measurements := handlers.NewMeasurementHandler(deps.MeasurementService)
	goals := handlers.NewGoalHandler(deps.GoalService)
	menus := handlers.NewMenuHandler(deps.MenuService)
	catalog := handlers.NewCatalogHandler(deps.CatalogService)
	trainings := handlers.NewTrainingHandler(deps.TrainingService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	authenticate := middleware.Authenticate(deps.AuthService)

	r.Route("/account", func(r chi.Router) {
		r.Post("/", accounts.Register)
		r.Post("/token", accounts.Login)
		r.Post("/refresh", accounts.Refresh)

		// logout works on revoked sessions too
		r.With(authenticate).Post("/logout", accounts.Logout)
		r.With(authenticate, middleware.RequireActive).Get("/", accounts.Me)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalog.ListProducts)
		r.Get("/{id}/ingredients", catalog.ProductIngredients)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireActive)
			r.Post("/", catalog.CreateProduct)
			r.Post("/{id}/ingredients", catalog.LinkIngredient)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate, middleware.RequireActive)

		r.Post("/ingredients/", catalog.CreateIngredient)

		r.Route("/measurements", func(r chi.Router) {
			r.Post("/", measurements.Submit)
			r.Get("/", measurements.History)
			r.Get("/progress", measurements.Progress)
		})

		r.Route("/goal", func(r chi.Router) {
			r.Put("/", goals.Set)
			r.Get("/", goals.Get)
		})

		r.Route("/menus", func(r chi.Router) {
			r.Post("/", menus.Generate)
			r.Get("/", menus.List)
			r.Get("/{id}", menus.Get)
		})

		r.Route("/trainings", func(r chi.Router) {
			r.Get("/", trainings.List)
			r.Post("/", trainings.Create)
			r.Get("/conducted", trainings.Conducted)
			r.Post("/{id}/conducted", trainings.MarkConducted)
		})
	})

	return r
}

// Server is the HTTP server of the API.
type Server struct {
	srv *http.Server
}

// NewServer creates a server listening on cfg.Addr().
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       time.Minute,
		},
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("Server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
