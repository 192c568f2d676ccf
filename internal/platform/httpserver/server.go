package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	governanceaccounting "desci/contexts/governance/governance-accounting"
	_ "desci/internal/platform/httpserver/docs"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options carries the optional platform surfaces mounted next to the
// governance routes.
type Options struct {
	AllowedOrigins []string
	Metrics        http.Handler
	Health         func(ctx context.Context) error
	EnableSwagger  bool
}

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
	addr       string
	governance governanceaccounting.Module
	options    Options
	http       *http.Server
}

func New(
	governance governanceaccounting.Module,
	logger *slog.Logger,
	addr string,
	options Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		governance: governance,
		options:    options,
	}
	s.registerRoutes()

	origins := options.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", walletHeader},
	}).Handler(s.mux)
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	if s.options.EnableSwagger {
		s.mux.Handle("/swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}
	if s.options.Metrics != nil {
		s.mux.Handle("GET /metrics", s.options.Metrics)
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /v1/projects", s.handleRegisterProject)
	s.mux.HandleFunc("GET /v1/projects/{project_id}", s.handleGetProject)
	s.mux.HandleFunc("GET /v1/projects/{project_id}/proposals", s.handleListProposals)
	s.mux.HandleFunc("POST /v1/projects/{project_id}/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /v1/projects/{project_id}/price", s.handleGetPrice)
	s.mux.HandleFunc("GET /v1/projects/{project_id}/purchases", s.handleListPurchases)
	s.mux.HandleFunc("POST /v1/projects/{project_id}/purchases", s.handleRecordPurchase)

	s.mux.HandleFunc("GET /v1/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("GET /v1/proposals/{proposal_id}/tally", s.handleProposalTally)
	s.mux.HandleFunc("POST /v1/proposals/{proposal_id}/votes", s.handleCastVote)
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.options.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.options.Health(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
