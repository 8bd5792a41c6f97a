package aggregator

import (
	"strconv"
	"time"

	"coding-profile-api/internal/models"
)

// Estimate derives the unified daily activity record for the calendar
// date of `today` from the current fetch results and the previous run's
// stored records. `previous` must be loaded before the fetch so the
// delta comparison is stale by exactly one run.
//
// LeetCode and Codeforces carry native per-day signals and are looked
// up directly. CodeChef and GeeksforGeeks expose no per-day data, so
// their counts are estimated as the clamped increase of the total
// solved counter since the previous run.
func Estimate(today time.Time, fetched, previous map[string]*models.PlatformStats) *models.DailyActivity {
	date := models.DateOnly(today)
	activity := &models.DailyActivity{Date: date}

	if lc := usable(fetched, models.PlatformLeetCode); lc != nil {
		key := strconv.FormatInt(date.Unix(), 10)
		activity.LeetCode = lc.SubmissionCalendar[key]
	}

	if cf := usable(fetched, models.PlatformCodeforces); cf != nil {
		activity.Codeforces = cf.SubmissionsByDate[date.Format("2006-01-02")]
	}

	activity.CodeChef = solvedDelta(
		usable(fetched, models.PlatformCodeChef),
		previous[models.PlatformCodeChef],
	)
	activity.GeeksforGeeks = solvedDelta(
		usable(fetched, models.PlatformGeeksforGeeks),
		previous[models.PlatformGeeksforGeeks],
	)

	activity.TotalSubmissions = activity.LeetCode + activity.Codeforces +
		activity.CodeChef + activity.GeeksforGeeks
	activity.IntensityLevel = models.IntensityLevelFor(activity.TotalSubmissions)

	return activity
}

func usable(fetched map[string]*models.PlatformStats, platform string) *models.PlatformStats {
	stats := fetched[platform]
	if stats == nil || stats.IsFailed() {
		return nil
	}
	return stats
}

// solvedDelta is a monotonic-counter diff, never negative. Without a
// previous baseline (first run ever) the contribution is 0, not an
// error.
func solvedDelta(current, previous *models.PlatformStats) int {
	if current == nil || previous == nil {
		return 0
	}

	diff := current.TotalSolved - previous.TotalSolved
	if diff < 0 {
		return 0
	}
	return diff
}
