package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/internal/domain/upsets"
	"github.com/okian/gridiron/pkg/logger"
)

// UpsetDependencies defines the interface for upset queries.
type UpsetDependencies interface {
	Upsets(ctx context.Context, kind upsets.Kind, season int) []model.Classification
	UpsetReport(ctx context.Context) model.UpsetReport
	UpsetGame(ctx context.Context, sel types.Selection) *types.UpsetGame
}

// UpsetsHandler handles upset requests.
type UpsetsHandler struct {
	deps UpsetDependencies
	log  logger.Logger
}

// NewUpsetsHandler creates a new upsets handler.
func NewUpsetsHandler(deps UpsetDependencies, log logger.Logger) *UpsetsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UpsetsHandler{deps: deps, log: log}
}

type upsetsResponse struct {
	Kind   upsets.Kind            `json:"type"`
	Season int                    `json:"season,omitempty"`
	Report model.UpsetReport      `json:"report"`
	Games  []model.Classification `json:"games"`
}

// HandleUpsets handles GET /api/upsets?type=&season=.
func (h *UpsetsHandler) HandleUpsets(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsets"
	raw := r.URL.Query().Get("type")
	kind := upsets.ParseKind(raw)
	if raw != "" && string(kind) != raw {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unknown type %q", raw)))
		return
	}
	season, err := queryInt(r, "season")
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ctx := r.Context()
	writeJSON(w, http.StatusOK, upsetsResponse{
		Kind:   kind,
		Season: season,
		Report: h.deps.UpsetReport(ctx),
		Games:  h.deps.Upsets(ctx, kind, season),
	})
}

// HandleUpsetGame handles GET /api/upsets/{game}?drive=. Drives are scored
// from the winner's side; plays are listed only for the requested drive.
func (h *UpsetsHandler) HandleUpsetGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.upset_game"
	gameID, err := gameVar(r)
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sel := types.Selection{GameID: gameID}
	if strings.TrimSpace(r.URL.Query().Get("drive")) != "" {
		if sel.DriveID, err = queryInt(r, "drive"); err != nil {
			writeError(w, r, h.log, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		sel.HasDrive = true
	}
	g := h.deps.UpsetGame(r.Context(), sel)
	if g == nil {
		writeError(w, r, h.log, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, g)
}
