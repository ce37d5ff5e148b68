package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	defaultRecent = 10
	maxRecent     = 50
)

type stats interface {
	Totals(ctx context.Context) (*entity.Totals, error)
	Recent(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type StatsHandler struct {
	logger *slog.Logger
	stats  stats
}

func NewStatsHandler(logger *slog.Logger, stats stats) *StatsHandler {
	return &StatsHandler{
		logger: logger.With("component", "stats"),
		stats:  stats,
	}
}

// Totals - writes the win and draw counters.
func (that *StatsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Totals")

	if that.stats == nil {
		http.Error(w, "match recording is disabled", http.StatusServiceUnavailable)
		return
	}

	totals, err := that.stats.Totals(r.Context())
	if err != nil {
		log.Error("failed to read totals", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, totals)
}

// Recent - writes the latest finished matches, newest first. The limit query parameter caps the list.
func (that *StatsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Recent")

	if that.stats == nil {
		http.Error(w, "match recording is disabled", http.StatusServiceUnavailable)
		return
	}

	limit := defaultRecent
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxRecent)
	}

	results, err := that.stats.Recent(r.Context(), limit)
	if err != nil {
		log.Error("failed to read recent results", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []*entity.MatchResult{}
	}

	that.writeJSON(w, results)
}

func (that *StatsHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
