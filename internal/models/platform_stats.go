package models

import "time"

const (
	PlatformLeetCode      = "leetcode"
	PlatformCodeforces    = "codeforces"
	PlatformCodeChef      = "codechef"
	PlatformGeeksforGeeks = "geeksforgeeks"
)

const (
	FetchStatusSuccess = "success" // primary structured source worked
	FetchStatusPartial = "partial" // only a degraded (scraped) source worked
	FetchStatusFailed  = "failed"  // all strategies exhausted
)

// AllPlatforms lists supported platforms in the order they are fetched.
var AllPlatforms = []string{
	PlatformLeetCode,
	PlatformCodeforces,
	PlatformCodeChef,
	PlatformGeeksforGeeks,
}

// PlatformStats is the canonical per-platform statistics record.
// Exactly one row exists per platform (upsert by platform key).
// Fields that do not apply to a platform stay at their zero value and
// are omitted from JSON.
type PlatformStats struct {
	BaseModel

	Platform string `gorm:"uniqueIndex;not null" json:"platform"`
	Username string `json:"username"`

	// Common counters. TotalSolved is distinct accepted problems,
	// TotalSubmissions raw submission count where the platform exposes it.
	TotalSolved      int `json:"total_solved"`
	TotalSubmissions int `json:"total_submissions,omitempty"`

	// Difficulty breakdown (LeetCode, GeeksforGeeks)
	EasySolved   int `json:"easy_solved,omitempty"`
	MediumSolved int `json:"medium_solved,omitempty"`
	HardSolved   int `json:"hard_solved,omitempty"`

	// Contest rating (LeetCode, Codeforces, CodeChef)
	Rating           int           `json:"rating,omitempty"`
	MaxRating        int           `json:"max_rating,omitempty"`
	Rank             string        `json:"rank,omitempty"`
	AttendedContests int           `json:"attended_contests,omitempty"`
	TopPercentage    float64       `json:"top_percentage,omitempty"`
	RatingHistory    RatingHistory `gorm:"type:jsonb" json:"rating_history,omitempty"`

	// LeetCode specific
	Ranking int `json:"ranking,omitempty"`

	// CodeChef specific
	Stars       int `json:"stars,omitempty"`
	GlobalRank  int `json:"global_rank,omitempty"`
	CountryRank int `json:"country_rank,omitempty"`

	// GeeksforGeeks specific
	CodingScore     int `json:"coding_score,omitempty"`
	MonthlyScore    int `json:"monthly_score,omitempty"`
	InstitutionRank int `json:"institution_rank,omitempty"`

	// Native per-day signals. SubmissionCalendar is keyed by day-start
	// Unix seconds (LeetCode), SubmissionsByDate by ISO date (Codeforces).
	SubmissionCalendar DayCounts `gorm:"type:jsonb" json:"submission_calendar,omitempty"`
	SubmissionsByDate  DayCounts `gorm:"type:jsonb" json:"submissions_by_date,omitempty"`

	LastFetched  time.Time `json:"last_fetched"`
	FetchStatus  string    `gorm:"not null;default:success" json:"fetch_status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

func (*PlatformStats) TableName() string {
	return "platform_stats"
}

func (s *PlatformStats) IsFailed() bool {
	return s.FetchStatus == FetchStatusFailed
}

// FailedStats builds the failure marker record returned by a platform
// client when every acquisition strategy is exhausted.
func FailedStats(platform, message string) *PlatformStats {
	return &PlatformStats{
		Platform:     platform,
		FetchStatus:  FetchStatusFailed,
		ErrorMessage: message,
		LastFetched:  time.Now(),
	}
}

// IsValidPlatform reports whether name is one of the supported platforms.
func IsValidPlatform(name string) bool {
	for _, p := range AllPlatforms {
		if p == name {
			return true
		}
	}
	return false
}
