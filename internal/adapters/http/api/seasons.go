package api

import (
	"context"
	"net/http"

	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/pkg/logger"
)

// SeasonDependencies defines the interface for browsing seasons and games.
type SeasonDependencies interface {
	Seasons(ctx context.Context) []int
	Weeks(ctx context.Context, season int) []int
	GamesFor(ctx context.Context, season, week int) []types.GameEntry
}

// SeasonsHandler handles season, week and game listing.
type SeasonsHandler struct {
	deps SeasonDependencies
	log  logger.Logger
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps SeasonDependencies, log logger.Logger) *SeasonsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SeasonsHandler{deps: deps, log: log}
}

// HandleSeasons handles GET /api/seasons.
func (h *SeasonsHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Seasons(r.Context()))
}

// HandleWeeks handles GET /api/seasons/{season}/weeks.
func (h *SeasonsHandler) HandleWeeks(w http.ResponseWriter, r *http.Request) {
	const op = "api.weeks"
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Weeks(r.Context(), season))
}

// HandleGames handles GET /api/seasons/{season}/weeks/{week}/games.
// An unknown season or week yields an empty list, not a 404.
func (h *SeasonsHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.games"
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	week, err := pathInt(r, "week")
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GamesFor(r.Context(), season, week))
}
