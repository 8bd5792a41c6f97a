package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"coding-profile-api/internal/cache"
	"coding-profile-api/internal/models"
	"coding-profile-api/internal/repository"

	"github.com/gorilla/mux"
)

// StatsHandler serves the per-platform statistics read endpoints. The
// "all stats" view sits behind a single-slot TTL cache: readers may see
// data up to one TTL stale, which is acceptable because the underlying
// records change once per day.
type StatsHandler struct {
	statsRepo repository.PlatformStatsRepository
	cache     *cache.Slot
}

func NewStatsHandler(statsRepo repository.PlatformStatsRepository, cacheTTL time.Duration) *StatsHandler {
	return &StatsHandler{
		statsRepo: statsRepo,
		cache:     cache.NewSlot(cacheTTL),
	}
}

// statsView is the public subset of a platform record; the raw per-day
// submission maps stay internal to the estimator.
type statsView struct {
	Username         string               `json:"username"`
	TotalSolved      int                  `json:"total_solved"`
	TotalSubmissions int                  `json:"total_submissions,omitempty"`
	EasySolved       int                  `json:"easy_solved,omitempty"`
	MediumSolved     int                  `json:"medium_solved,omitempty"`
	HardSolved       int                  `json:"hard_solved,omitempty"`
	Rating           int                  `json:"rating,omitempty"`
	MaxRating        int                  `json:"max_rating,omitempty"`
	Rank             string               `json:"rank,omitempty"`
	Ranking          int                  `json:"ranking,omitempty"`
	Stars            int                  `json:"stars,omitempty"`
	GlobalRank       int                  `json:"global_rank,omitempty"`
	CountryRank      int                  `json:"country_rank,omitempty"`
	CodingScore      int                  `json:"coding_score,omitempty"`
	MonthlyScore     int                  `json:"monthly_score,omitempty"`
	InstitutionRank  int                  `json:"institution_rank,omitempty"`
	RatingHistory    models.RatingHistory `json:"rating_history,omitempty"`
	FetchStatus      string               `json:"fetch_status"`
	LastFetched      time.Time            `json:"last_fetched"`
}

func newStatsView(s *models.PlatformStats) statsView {
	return statsView{
		Username:         s.Username,
		TotalSolved:      s.TotalSolved,
		TotalSubmissions: s.TotalSubmissions,
		EasySolved:       s.EasySolved,
		MediumSolved:     s.MediumSolved,
		HardSolved:       s.HardSolved,
		Rating:           s.Rating,
		MaxRating:        s.MaxRating,
		Rank:             s.Rank,
		Ranking:          s.Ranking,
		Stars:            s.Stars,
		GlobalRank:       s.GlobalRank,
		CountryRank:      s.CountryRank,
		CodingScore:      s.CodingScore,
		MonthlyScore:     s.MonthlyScore,
		InstitutionRank:  s.InstitutionRank,
		RatingHistory:    s.RatingHistory,
		FetchStatus:      s.FetchStatus,
		LastFetched:      s.LastFetched,
	}
}

// AllStats handles GET /api/stats
func (h *StatsHandler) AllStats(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(); ok {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"cached":  true,
			"data":    cached,
		})
		return
	}

	stats, err := h.statsRepo.ListAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make(map[string]statsView, len(stats))
	for _, s := range stats {
		data[s.Platform] = newStatsView(s)
	}

	h.cache.Set(data)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cached":  false,
		"data":    data,
	})
}

// PlatformStats handles GET /api/stats/{platform}
func (h *StatsHandler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	platformName := mux.Vars(r)["platform"]

	if !models.IsValidPlatform(platformName) {
		respondError(w, http.StatusBadRequest,
			"Invalid platform. Use: "+strings.Join(models.AllPlatforms, ", "))
		return
	}

	stats, err := h.statsRepo.GetByPlatform(platformName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if stats == nil {
		respondError(w, http.StatusNotFound, "Platform data not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"last_updated": stats.LastFetched,
		"data":         newStatsView(stats),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
