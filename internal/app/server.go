package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/fatura-gateway/internal/api/middlewares"
	"github.com/markdave123-py/fatura-gateway/internal/config"
	"github.com/markdave123-py/fatura-gateway/internal/observability"
	"github.com/markdave123-py/fatura-gateway/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// RouterDeps are the collaborators the routes are wired to.
type RouterDeps struct {
	Pipeline  handlers.InvoiceProcessor
	Analyses  *services.AnalysisService
	JWTSecret string
	Origins   []string
	Logger    zerolog.Logger
}

// NewRouter builds the route table.
func NewRouter(d RouterDeps) http.Handler {
	healthHandler := handlers.NewHealthHandler(d.Pipeline)
	invoiceHandler := handlers.NewInvoiceHandler(d.Pipeline, d.Logger)
	analysisHandler := handlers.NewAnalysisHandler(d.Analyses, d.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// public endpoints
	r.Get("/health", healthHandler.Health)

	r.Group(func(protected chi.Router) {
		if d.JWTSecret != "" {
			protected.Use(appMiddleware.JWTMiddleware(d.JWTSecret))
		}
		protected.With(middleware.RequestSize(config.MaxUploadBytes)).Post("/parse_invoice", invoiceHandler.ParseInvoice)
		protected.Get("/analyses", analysisHandler.ListAnalyses)
	})

	return r
}

// NewServer wires the router into an http.Server on cfg.Port.
func NewServer(cfg *config.Config, d RouterDeps) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(d),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv, logger: d.Logger}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
