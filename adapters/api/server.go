package api

import (
	"context"
	"net/http"
	"time"

	"edakit/app"
	"edakit/internal"
	"edakit/internal/config"
	"edakit/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the analysis services over HTTP
type Server struct {
	router *chi.Mux
	cfg    config.AnalysisConfig

	outliers    *app.OutlierService
	normality   *app.NormalityService
	correlation *app.CorrelationService
	association *app.AssociationService
	groups      *app.GroupComparisonService
	reports     *app.ReportService
	logger      *internal.Logger
}

// NewServer wires the services and routes. repo may be nil, which disables
// report storage.
func NewServer(cfg config.AnalysisConfig, repo ports.ReportRepository, logger *internal.Logger) *Server {
	logger = logger.OrDefault()
	s := &Server{
		router:      chi.NewRouter(),
		cfg:         cfg,
		outliers:    app.NewOutlierService(logger),
		normality:   app.NewNormalityService(logger, cfg.Workers),
		correlation: app.NewCorrelationService(logger, cfg.Workers),
		association: app.NewAssociationService(logger),
		groups:      app.NewGroupComparisonService(logger),
		reports:     app.NewReportService(logger, cfg.Workers, repo),
		logger:      logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/outliers", s.handleOutliers)
		r.Post("/normality", s.handleNormality)
		r.Post("/correlations", s.handleCorrelations)
		r.Post("/eta", s.handleEta)
		r.Post("/tests/mannwhitney", s.handleMannWhitney)
		r.Post("/tests/kruskal", s.handleKruskal)

		r.Post("/reports", s.handleCreateReport)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
