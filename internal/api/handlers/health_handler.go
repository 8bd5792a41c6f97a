package handlers

import (
	"net/http"
	"runtime"
	"time"

	"coding-profile-api/internal/repository"
	"coding-profile-api/internal/version"
)

var startTime = time.Now()

type HealthHandler struct {
	statsRepo repository.PlatformStatsRepository
}

func NewHealthHandler(statsRepo repository.PlatformStatsRepository) *HealthHandler {
	return &HealthHandler{statsRepo: statsRepo}
}

type HealthResponse struct {
	Status         string            `json:"status"`
	Timestamp      string            `json:"timestamp"`
	Uptime         string            `json:"uptime"`
	Version        string            `json:"version"`
	Go             string            `json:"go_version"`
	LastDataUpdate *time.Time        `json:"last_data_update"`
	BuildInfo      map[string]string `json:"build_info,omitempty"`
}

// Health reports service status and data freshness.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Version:   version.GetVersion(),
		Go:        runtime.Version(),
		BuildInfo: version.GetBuildInfo(),
	}

	last, err := h.statsRepo.GetLastFetched()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if last != nil {
		response.LastDataUpdate = &last.LastFetched
	}

	respondJSON(w, http.StatusOK, response)
}

// Root lists the available endpoints.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "Coding Profile Analytics API",
		"version": version.GetVersion(),
		"endpoints": map[string]string{
			"health":         "/api/health",
			"stats":          "/api/stats",
			"platform_stats": "/api/stats/{platform}",
			"heatmap":        "/api/heatmap",
			"year_heatmap":   "/api/heatmap/{year}",
		},
	})
}
