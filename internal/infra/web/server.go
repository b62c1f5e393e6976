package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/usecase"
)

// Server exposes the liveness endpoint, Prometheus metrics and a small
// JWT-guarded admin stats API.
type Server struct {
	statsUC     usecase.StatsUseCase
	auth        *AuthManager
	apiPassword string
	log         *zerolog.Logger
}

func NewServer(statsUC usecase.StatsUseCase, auth *AuthManager, apiPassword string, logger *zerolog.Logger) *Server {
	return &Server{
		statsUC:     statsUC,
		auth:        auth,
		apiPassword: apiPassword,
		log:         logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/login", s.handleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAdmin)
		pr.Get("/api/v1/stats", s.handleStats)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot is running!"))
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiPassword == "" {
			s.log.Error().Msg("admin API password is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.apiPassword)) != 1 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint admin token")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

type statsResponse struct {
	Recipients int          `json:"recipients"`
	RecentRuns []runSummary `json:"recent_runs"`
}

type runSummary struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Attempted  int    `json:"attempted"`
	Succeeded  int    `json:"succeeded"`
	FinishedAt string `json:"finished_at"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.statsUC.Summary(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to build stats summary")
		http.Error(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}

	resp := statsResponse{
		Recipients: summary.RecipientCount,
		RecentRuns: make([]runSummary, 0, len(summary.RecentRuns)),
	}
	for _, run := range summary.RecentRuns {
		resp.RecentRuns = append(resp.RecentRuns, toRunSummary(run))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func toRunSummary(run *model.BroadcastRun) runSummary {
	return runSummary{
		ID:         run.ID,
		Kind:       string(run.Kind),
		Attempted:  run.Attempted,
		Succeeded:  run.Succeeded,
		FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339),
	}
}
