// Package site serves the server-rendered drive explorer and the upset
// overview. Every request parses the selection from the query string,
// queries the service and renders one page.
package site

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/internal/domain/upsets"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// ErrRender is reported when a page fails to render.
var ErrRender = errors.New("page render failed")

// Dependencies are the queries the pages need.
type Dependencies interface {
	Explore(ctx context.Context, sel types.Selection) types.Exploration
	Upsets(ctx context.Context, kind upsets.Kind, season int) []model.Classification
	UpsetReport(ctx context.Context) model.UpsetReport
	UpsetGame(ctx context.Context, sel types.Selection) *types.UpsetGame
}

// Handler renders the HTML pages.
type Handler struct {
	deps   Dependencies
	title  string
	logger logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithTitle sets the page title prefix.
func WithTitle(title string) Option {
	return func(h *Handler) {
		if strings.TrimSpace(title) != "" {
			h.title = title
		}
	}
}

// WithLogger sets the logger used for render failures.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a page handler.
func New(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{deps: deps, title: "NFL Drive Explorer", logger: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the page routes to router.
func (h *Handler) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}
	router.HandleFunc("/", h.HandleExplorer).Methods(http.MethodGet)
	router.HandleFunc("/upsets", h.HandleUpsets).Methods(http.MethodGet)
}

// HandleExplorer handles GET /?season=&week=&game=&drive=.
func (h *Handler) HandleExplorer(w http.ResponseWriter, r *http.Request) {
	x := h.deps.Explore(r.Context(), ParseSelection(r))
	h.render(w, r, "explorer", layout(h.title, "explorer", explorerPage(x)))
}

// HandleUpsets handles GET /upsets?type=&season=&game=&drive=. A picked game
// is broken down by drive; a picked drive also lists its plays.
func (h *Handler) HandleUpsets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := upsets.ParseKind(q.Get("type"))
	season, _ := strconv.Atoi(strings.TrimSpace(q.Get("season")))
	ctx := r.Context()
	page := upsetsView{
		Kind:   kind,
		Season: season,
		Report: h.deps.UpsetReport(ctx),
		Games:  h.deps.Upsets(ctx, kind, season),
	}
	if sel := ParseSelection(r); sel.GameID != "" {
		page.Game = h.deps.UpsetGame(ctx, sel)
	}
	h.render(w, r, "upsets", layout(h.title+" - Upsets", "upsets", upsetsPage(page)))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, c templ.Component) {
	metrics.RecordPageRender(page)
	templ.Handler(c, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		h.logger.Error(r.Context(), "render page", logger.String("page", page), logger.Error(err))
		metrics.RecordErrorByComponent("site", "render")
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

// ParseSelection reads the explorer selection from the query string.
// Values that do not parse count as not selected.
func ParseSelection(r *http.Request) types.Selection {
	q := r.URL.Query()
	var sel types.Selection
	sel.Season, _ = strconv.Atoi(strings.TrimSpace(q.Get("season")))
	sel.Week, _ = strconv.Atoi(strings.TrimSpace(q.Get("week")))
	sel.GameID = strings.TrimSpace(q.Get("game"))
	if raw := strings.TrimSpace(q.Get("drive")); raw != "" {
		if d, err := strconv.Atoi(raw); err == nil {
			sel.DriveID, sel.HasDrive = d, true
		}
	}
	return sel
}
