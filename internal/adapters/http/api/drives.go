package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/pkg/logger"
)

// DriveDependencies defines the interface for drive level queries.
type DriveDependencies interface {
	DrivesFor(ctx context.Context, gameID string) []types.DriveEntry
	PlaysFor(ctx context.Context, gameID string, driveID int) []model.Play
	Summary(ctx context.Context, gameID string, driveID int) model.DriveSummary
	WinProbability(ctx context.Context, gameID string, driveID int) []model.WPPoint
}

// DrivesHandler handles drive, play, summary and win probability requests.
type DrivesHandler struct {
	deps DriveDependencies
	log  logger.Logger
}

// NewDrivesHandler creates a new drives handler.
func NewDrivesHandler(deps DriveDependencies, log logger.Logger) *DrivesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DrivesHandler{deps: deps, log: log}
}

// HandleDrives handles GET /api/games/{game}/drives.
func (h *DrivesHandler) HandleDrives(w http.ResponseWriter, r *http.Request) {
	const op = "api.drives"
	gameID, err := gameVar(r)
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.DrivesFor(r.Context(), gameID))
}

// HandlePlays handles GET /api/games/{game}/drives/{drive}/plays.
func (h *DrivesHandler) HandlePlays(w http.ResponseWriter, r *http.Request) {
	const op = "api.plays"
	gameID, driveID, err := driveVars(r)
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PlaysFor(r.Context(), gameID, driveID))
}

// HandleSummary handles GET /api/games/{game}/drives/{drive}/summary.
// An unknown drive yields the empty summary.
func (h *DrivesHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	gameID, driveID, err := driveVars(r)
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Summary(r.Context(), gameID, driveID))
}

// HandleWinProbability handles GET /api/games/{game}/drives/{drive}/wp.
func (h *DrivesHandler) HandleWinProbability(w http.ResponseWriter, r *http.Request) {
	const op = "api.wp"
	gameID, driveID, err := driveVars(r)
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.WinProbability(r.Context(), gameID, driveID))
}

func gameVar(r *http.Request) (string, error) {
	id := strings.TrimSpace(mux.Vars(r)["game"])
	if id == "" {
		return "", ErrBadRequest
	}
	return id, nil
}

func driveVars(r *http.Request) (string, int, error) {
	gameID, err := gameVar(r)
	if err != nil {
		return "", 0, err
	}
	driveID, err := pathInt(r, "drive")
	if err != nil {
		return "", 0, err
	}
	return gameID, driveID, nil
}
