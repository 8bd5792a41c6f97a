package aggregator

import (
	"context"
	"testing"
	"time"

	"coding-profile-api/internal/models"
	"coding-profile-api/internal/platform"
)

// Mock repositories for testing

type mockStatsRepo struct {
	stats   map[string]*models.PlatformStats
	listErr error
}

func newMockStatsRepo() *mockStatsRepo {
	return &mockStatsRepo{stats: make(map[string]*models.PlatformStats)}
}

func (m *mockStatsRepo) GetByPlatform(platform string) (*models.PlatformStats, error) {
	return m.stats[platform], nil
}

func (m *mockStatsRepo) ListAll() ([]*models.PlatformStats, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*models.PlatformStats, 0, len(m.stats))
	for _, s := range m.stats {
		result = append(result, s)
	}
	return result, nil
}

func (m *mockStatsRepo) Upsert(stats *models.PlatformStats) error {
	m.stats[stats.Platform] = stats
	return nil
}

func (m *mockStatsRepo) GetLastFetched() (*models.PlatformStats, error) {
	var latest *models.PlatformStats
	for _, s := range m.stats {
		if latest == nil || s.LastFetched.After(latest.LastFetched) {
			latest = s
		}
	}
	return latest, nil
}

type mockActivityRepo struct {
	activities map[string]*models.DailyActivity
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{activities: make(map[string]*models.DailyActivity)}
}

func (m *mockActivityRepo) GetByDate(date time.Time) (*models.DailyActivity, error) {
	return m.activities[models.DateOnly(date).Format("2006-01-02")], nil
}

func (m *mockActivityRepo) Upsert(activity *models.DailyActivity) error {
	// The real layer recomputes intensity in a BeforeSave hook.
	activity.IntensityLevel = models.IntensityLevelFor(activity.TotalSubmissions)
	m.activities[models.DateOnly(activity.Date).Format("2006-01-02")] = activity
	return nil
}

func (m *mockActivityRepo) ListSince(from time.Time) ([]*models.DailyActivity, error) {
	result := make([]*models.DailyActivity, 0)
	for _, a := range m.activities {
		if !a.Date.Before(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListRange(from, to time.Time) ([]*models.DailyActivity, error) {
	result := make([]*models.DailyActivity, 0)
	for _, a := range m.activities {
		if !a.Date.Before(from) && !a.Date.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

// stubClient returns a canned record and counts fetches.

type stubClient struct {
	platform string
	result   *models.PlatformStats
	fetches  int
}

func (c *stubClient) Platform() string {
	return c.platform
}

func (c *stubClient) Fetch(ctx context.Context, username string) *models.PlatformStats {
	c.fetches++
	c.result.Platform = c.platform
	c.result.LastFetched = time.Now()
	return c.result
}

func newTestService(statsRepo *mockStatsRepo, activityRepo *mockActivityRepo, usernames map[string]string, clients ...platform.Client) *Service {
	s := NewService(statsRepo, activityRepo, usernames, 0)
	s.SetClients(clients)
	return s
}

func TestRunSkipsUnconfiguredPlatforms(t *testing.T) {
	statsRepo := newMockStatsRepo()
	activityRepo := newMockActivityRepo()

	leetcode := &stubClient{
		platform: models.PlatformLeetCode,
		result:   &models.PlatformStats{Username: "alice", FetchStatus: models.FetchStatusSuccess},
	}
	codechef := &stubClient{
		platform: models.PlatformCodeChef,
		result:   &models.PlatformStats{Username: "alice", FetchStatus: models.FetchStatusSuccess},
	}

	service := newTestService(statsRepo, activityRepo,
		map[string]string{models.PlatformLeetCode: "alice"}, // codechef not configured
		leetcode, codechef)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if leetcode.fetches != 1 {
		t.Errorf("leetcode fetched %d times, expected 1", leetcode.fetches)
	}
	if codechef.fetches != 0 {
		t.Errorf("codechef fetched %d times, expected 0 (no username)", codechef.fetches)
	}
	if _, exists := statsRepo.stats[models.PlatformCodeChef]; exists {
		t.Error("codechef record persisted despite platform being skipped")
	}
}

func TestRunDoesNotOverwriteOnFailedFetch(t *testing.T) {
	statsRepo := newMockStatsRepo()
	activityRepo := newMockActivityRepo()

	// Last known good record
	statsRepo.stats[models.PlatformCodeChef] = &models.PlatformStats{
		Platform:    models.PlatformCodeChef,
		Username:    "bob",
		TotalSolved: 40,
		FetchStatus: models.FetchStatusSuccess,
	}

	failing := &stubClient{
		platform: models.PlatformCodeChef,
		result:   models.FailedStats(models.PlatformCodeChef, "all mirrors down"),
	}

	service := newTestService(statsRepo, activityRepo,
		map[string]string{models.PlatformCodeChef: "bob"}, failing)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	stored := statsRepo.stats[models.PlatformCodeChef]
	if stored.TotalSolved != 40 || stored.FetchStatus != models.FetchStatusSuccess {
		t.Errorf("failed fetch overwrote stored record: solved=%d status=%s",
			stored.TotalSolved, stored.FetchStatus)
	}
}

func TestRunAlwaysWritesDailyActivity(t *testing.T) {
	statsRepo := newMockStatsRepo()
	activityRepo := newMockActivityRepo()

	failing := &stubClient{
		platform: models.PlatformLeetCode,
		result:   models.FailedStats(models.PlatformLeetCode, "timeout"),
	}

	service := newTestService(statsRepo, activityRepo,
		map[string]string{models.PlatformLeetCode: "alice"}, failing)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	activity, _ := activityRepo.GetByDate(time.Now())
	if activity == nil {
		t.Fatal("no daily activity record written for an all-failed run")
	}
	if activity.TotalSubmissions != 0 || activity.IntensityLevel != 0 {
		t.Errorf("all-failed run produced total=%d level=%d, expected zeros",
			activity.TotalSubmissions, activity.IntensityLevel)
	}
}

func TestRunUsesPreviousStatsAsDeltaBaseline(t *testing.T) {
	statsRepo := newMockStatsRepo()
	activityRepo := newMockActivityRepo()

	statsRepo.stats[models.PlatformCodeChef] = &models.PlatformStats{
		Platform:    models.PlatformCodeChef,
		TotalSolved: 40,
		FetchStatus: models.FetchStatusSuccess,
	}

	codechef := &stubClient{
		platform: models.PlatformCodeChef,
		result: &models.PlatformStats{
			Username:    "bob",
			TotalSolved: 45,
			FetchStatus: models.FetchStatusSuccess,
		},
	}

	service := newTestService(statsRepo, activityRepo,
		map[string]string{models.PlatformCodeChef: "bob"}, codechef)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	activity, _ := activityRepo.GetByDate(time.Now())
	if activity == nil {
		t.Fatal("no daily activity record written")
	}
	if activity.CodeChef != 5 {
		t.Errorf("codechef daily estimate = %d, expected 5 (45-40)", activity.CodeChef)
	}

	// The new totals must have replaced the baseline.
	if statsRepo.stats[models.PlatformCodeChef].TotalSolved != 45 {
		t.Errorf("stored codechef solved = %d, expected 45", statsRepo.stats[models.PlatformCodeChef].TotalSolved)
	}
}

func TestRunSurvivesBaselineLoadFailure(t *testing.T) {
	statsRepo := newMockStatsRepo()
	statsRepo.listErr = context.DeadlineExceeded
	activityRepo := newMockActivityRepo()

	codechef := &stubClient{
		platform: models.PlatformCodeChef,
		result: &models.PlatformStats{
			Username:    "bob",
			TotalSolved: 45,
			FetchStatus: models.FetchStatusSuccess,
		},
	}

	service := newTestService(statsRepo, activityRepo,
		map[string]string{models.PlatformCodeChef: "bob"}, codechef)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// No baseline means zero contribution, not a failure.
	activity, _ := activityRepo.GetByDate(time.Now())
	if activity == nil {
		t.Fatal("no daily activity record written")
	}
	if activity.CodeChef != 0 {
		t.Errorf("codechef estimate without baseline = %d, expected 0", activity.CodeChef)
	}
}
