package api

import (
	"net/http"
)

// StatsProvider reports dataset and load counters.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider counters as JSON.
type StatsHandler struct {
	provider StatsProvider
}

func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := map[string]interface{}{}
	if h.provider != nil {
		stats = h.provider.GetStats()
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, stats)
}
