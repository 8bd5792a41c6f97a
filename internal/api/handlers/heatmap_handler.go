package handlers

import (
	"net/http"
	"strconv"
	"time"

	"coding-profile-api/internal/cache"
	"coding-profile-api/internal/models"
	"coding-profile-api/internal/repository"

	"github.com/gorilla/mux"
)

// HeatmapHandler serves the daily-activity read endpoints. The full
// 365-day view is cached in its own slot; year views are cheap range
// queries and stay uncached.
type HeatmapHandler struct {
	activityRepo repository.DailyActivityRepository
	cache        *cache.Slot
	minYear      int
	maxYear      int
}

func NewHeatmapHandler(activityRepo repository.DailyActivityRepository, cacheTTL time.Duration, minYear, maxYear int) *HeatmapHandler {
	return &HeatmapHandler{
		activityRepo: activityRepo,
		cache:        cache.NewSlot(cacheTTL),
		minYear:      minYear,
		maxYear:      maxYear,
	}
}

type heatmapEntry struct {
	Date      string         `json:"date"`
	Count     int            `json:"count"`
	Level     int            `json:"level"`
	Breakdown map[string]int `json:"breakdown"`
}

func formatActivities(activities []*models.DailyActivity) []heatmapEntry {
	entries := make([]heatmapEntry, 0, len(activities))
	for _, a := range activities {
		entries = append(entries, heatmapEntry{
			Date:      a.Date.Format("2006-01-02"),
			Count:     a.TotalSubmissions,
			Level:     a.IntensityLevel,
			Breakdown: a.Breakdown(),
		})
	}
	return entries
}

// Heatmap handles GET /api/heatmap (last 365 days, ascending by date)
func (h *HeatmapHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(); ok {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"cached":  true,
			"data":    cached,
		})
		return
	}

	oneYearAgo := time.Now().AddDate(-1, 0, 0)
	activities, err := h.activityRepo.ListSince(oneYearAgo)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	entries := formatActivities(activities)
	h.cache.Set(entries)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cached":  false,
		"data":    entries,
	})
}

// HeatmapYear handles GET /api/heatmap/{year}
func (h *HeatmapHandler) HeatmapYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil || year < h.minYear || year > h.maxYear {
		respondError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.Local)

	activities, err := h.activityRepo.ListRange(start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"year":    year,
		"data":    formatActivities(activities),
	})
}
