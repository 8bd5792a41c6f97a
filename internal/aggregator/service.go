package aggregator

import (
	"context"
	"log"
	"time"

	"coding-profile-api/internal/models"
	"coding-profile-api/internal/platform"
	"coding-profile-api/internal/repository"
)

// Service orchestrates one aggregation run: load previous records,
// fetch each configured platform sequentially with spacing, estimate
// the day's activity, persist.
type Service struct {
	clients      []platform.Client
	usernames    map[string]string
	statsRepo    repository.PlatformStatsRepository
	activityRepo repository.DailyActivityRepository
	fetchDelay   time.Duration
}

func NewService(
	statsRepo repository.PlatformStatsRepository,
	activityRepo repository.DailyActivityRepository,
	usernames map[string]string,
	fetchDelay time.Duration,
) *Service {
	return &Service{
		clients: []platform.Client{
			platform.NewLeetCodeClient(),
			platform.NewCodeforcesClient(),
			platform.NewCodeChefClient(),
			platform.NewGeeksforGeeksClient(),
		},
		usernames:    usernames,
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		fetchDelay:   fetchDelay,
	}
}

// SetClients replaces the default platform clients.
func (s *Service) SetClients(clients []platform.Client) {
	s.clients = clients
}

// Run executes one full aggregation cycle. It never aborts midway: a
// failed platform or a failed write degrades that one record and the
// run continues.
func (s *Service) Run(ctx context.Context) error {
	log.Println("🚀 Starting aggregation run...")
	started := time.Now()

	// Previous records are the delta baseline and must be read before
	// any new data is written.
	previous := s.loadPrevious()

	results := s.fetchAll(ctx)

	activity := Estimate(time.Now(), results, previous)

	s.saveStats(results)
	s.saveActivity(activity)

	log.Printf("✅ Aggregation run completed in %v", time.Since(started).Round(time.Millisecond))
	return nil
}

func (s *Service) loadPrevious() map[string]*models.PlatformStats {
	previous := make(map[string]*models.PlatformStats)

	stored, err := s.statsRepo.ListAll()
	if err != nil {
		// Degrades delta estimation to "no baseline", not a fatal error.
		log.Printf("⚠️  Failed to load previous stats: %v", err)
		return previous
	}

	for _, stats := range stored {
		previous[stats.Platform] = stats
	}
	return previous
}

// fetchAll runs the platform clients strictly one after another with a
// fixed delay in between. Sequential-with-delay is a rate-limiting
// policy toward the third-party mirrors, not an optimization concern.
func (s *Service) fetchAll(ctx context.Context) map[string]*models.PlatformStats {
	results := make(map[string]*models.PlatformStats)
	first := true

	for _, client := range s.clients {
		username := s.usernames[client.Platform()]
		if username == "" {
			log.Printf("⏭️  Skipping %s: no username configured", client.Platform())
			continue
		}

		if !first && s.fetchDelay > 0 {
			time.Sleep(s.fetchDelay)
		}
		first = false

		log.Printf("📊 Fetching %s data for %q...", client.Platform(), username)
		results[client.Platform()] = client.Fetch(ctx, username)
	}

	return results
}

// saveStats upserts every successful or partial record. Failed records
// are reported and skipped so the last known good data survives
// transient outages. A write error on one platform does not abort the
// others.
func (s *Service) saveStats(results map[string]*models.PlatformStats) {
	for platformName, stats := range results {
		if stats.IsFailed() {
			log.Printf("⚠️  Skipping %s persistence: fetch failed (%s)", platformName, stats.ErrorMessage)
			continue
		}

		if err := s.statsRepo.Upsert(stats); err != nil {
			log.Printf("❌ Error saving %s stats: %v", platformName, err)
			continue
		}
		log.Printf("✅ Saved %s stats", platformName)
	}
}

// saveActivity writes the day record unconditionally; even an all-failed
// run produces a (zero) entry for the date.
func (s *Service) saveActivity(activity *models.DailyActivity) {
	if err := s.activityRepo.Upsert(activity); err != nil {
		log.Printf("❌ Error saving daily activity: %v", err)
		return
	}
	log.Printf("✅ Saved daily activity for %s (%d submissions, level %d)",
		activity.Date.Format("2006-01-02"), activity.TotalSubmissions, activity.IntensityLevel)
}
