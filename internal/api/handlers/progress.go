package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/obilearn/obi/internal/domain"
	"github.com/obilearn/obi/internal/progress"
)

// StatsReader supplies the per-day counters behind the chart
type StatsReader interface {
	ListDailyStats(ctx context.Context, learnerID domain.LearnerID, from, to time.Time) ([]domain.DailyStat, error)
}

// ProgressHandler serves the progress chart series
type ProgressHandler struct {
	stats StatsReader
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(stats StatsReader) *ProgressHandler {
	return &ProgressHandler{stats: stats}
}

// periodDays is how far back each chart period reaches
func periodDays(period progress.Period) int {
	switch period {
	case progress.PeriodSixMonths:
		return 182
	case progress.PeriodYear:
		return 365
	}
	return 30
}

// Chart returns the learner's bucketed progress series for a period
func (h *ProgressHandler) Chart(w http.ResponseWriter, r *http.Request) {
	learner := LearnerFromContext(r)
	if learner == nil {
		h.jsonError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	period := progress.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = progress.PeriodMonth
	}
	if !period.IsValid() {
		h.jsonError(w, http.StatusBadRequest, "period must be one of month, 6months, year")
		return
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -periodDays(period))

	stats, err := h.stats.ListDailyStats(r.Context(), learner.ID, from, to)
	if err != nil {
		h.jsonError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	points := progress.Series(stats, period)
	if points == nil {
		points = []progress.Point{}
	}

	h.jsonResponse(w, http.StatusOK, map[string]any{
		"period": period,
		"points": points,
	})
}

func (h *ProgressHandler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ProgressHandler) jsonError(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
