// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/okian/gridiron/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SeasonDependencies
	DriveDependencies
	UpsetDependencies
}

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	seasonsHandler *SeasonsHandler
	drivesHandler  *DrivesHandler
	upsetsHandler  *UpsetsHandler
	log            logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for rejected and failed requests.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.seasonsHandler = NewSeasonsHandler(deps, s.log)
	s.drivesHandler = NewDrivesHandler(deps, s.log)
	s.upsetsHandler = NewUpsetsHandler(deps, s.log)
	return s
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}
	router.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	router.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r := router.PathPrefix("/api").Subrouter()
	r.Use(RequestIDMiddleware)
	r.NotFoundHandler = RequestIDMiddleware(MetricsMiddleware(s.handleNotFound, "not_found"))
	r.HandleFunc("/seasons", MetricsMiddleware(s.seasonsHandler.HandleSeasons, "seasons")).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{season}/weeks", MetricsMiddleware(s.seasonsHandler.HandleWeeks, "weeks")).Methods(http.MethodGet)
	r.HandleFunc("/seasons/{season}/weeks/{week}/games", MetricsMiddleware(s.seasonsHandler.HandleGames, "games")).Methods(http.MethodGet)
	r.HandleFunc("/games/{game}/drives", MetricsMiddleware(s.drivesHandler.HandleDrives, "drives")).Methods(http.MethodGet)
	r.HandleFunc("/games/{game}/drives/{drive}/plays", MetricsMiddleware(s.drivesHandler.HandlePlays, "plays")).Methods(http.MethodGet)
	r.HandleFunc("/games/{game}/drives/{drive}/summary", MetricsMiddleware(s.drivesHandler.HandleSummary, "summary")).Methods(http.MethodGet)
	r.HandleFunc("/games/{game}/drives/{drive}/wp", MetricsMiddleware(s.drivesHandler.HandleWinProbability, "wp")).Methods(http.MethodGet)
	r.HandleFunc("/upsets", MetricsMiddleware(s.upsetsHandler.HandleUpsets, "upsets")).Methods(http.MethodGet)
	r.HandleFunc("/upsets/{game}", MetricsMiddleware(s.upsetsHandler.HandleUpsetGame, "upset_game")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, s.log, http.StatusNotFound, "not_found", NewKind("api.route", ErrNotFound))
}

// writeError answers with a JSON error body and logs the failure; client
// errors at warn level, server errors at error level.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	fields := []logger.Field{
		logger.Int("status", status),
		logger.String("code", code),
		logger.String("path", r.URL.Path),
		logger.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", fields...)
	} else {
		log.Warn(r.Context(), "request rejected", fields...)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathInt reads an integer path variable.
func pathInt(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}
