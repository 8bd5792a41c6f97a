package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyActivity is the unified daily submission record, one row per
// calendar date (upsert by date, stored at local midnight).
type DailyActivity struct {
	BaseModel

	Date time.Time `gorm:"uniqueIndex;not null" json:"date"`

	TotalSubmissions int `json:"total_submissions"`

	// Per-platform breakdown
	LeetCode      int `json:"leetcode"`
	Codeforces    int `json:"codeforces"`
	CodeChef      int `json:"codechef"`
	GeeksforGeeks int `json:"geeksforgeeks"`

	// 0 = no activity, 1 = 1-2, 2 = 3-5, 3 = 6-9, 4 = 10+
	IntensityLevel int `json:"intensity_level"`
}

func (*DailyActivity) TableName() string {
	return "daily_activities"
}

// BeforeSave recomputes the intensity level from the total. The stored
// level is never trusted from caller input.
func (a *DailyActivity) BeforeSave(tx *gorm.DB) error {
	a.IntensityLevel = IntensityLevelFor(a.TotalSubmissions)
	return nil
}

// IntensityLevelFor bands a day's submission count for heatmap coloring.
func IntensityLevelFor(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// Breakdown returns the per-platform counts keyed by platform name.
func (a *DailyActivity) Breakdown() map[string]int {
	return map[string]int{
		PlatformLeetCode:      a.LeetCode,
		PlatformCodeforces:    a.Codeforces,
		PlatformCodeChef:      a.CodeChef,
		PlatformGeeksforGeeks: a.GeeksforGeeks,
	}
}

// DateOnly truncates t to local midnight, the canonical form of the
// Date key.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
