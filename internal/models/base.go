package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint           `gorm:"primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// DayCounts maps a day key to a submission count. The key format is
// platform-specific: LeetCode uses day-start Unix seconds ("1700000000"),
// Codeforces uses ISO dates ("2024-11-14").
type DayCounts map[string]int

func (d *DayCounts) Scan(value interface{}) error {
	if value == nil {
		*d = make(map[string]int)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	var result map[string]int
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}

	*d = result
	return nil
}

func (d *DayCounts) Value() (driver.Value, error) {
	if d == nil || len(*d) == 0 {
		return "{}", nil
	}

	return json.Marshal(*d)
}

// RatingEntry is one point of a contest rating history.
type RatingEntry struct {
	ContestID   int       `json:"contest_id,omitempty"`
	ContestName string    `json:"contest_name"`
	Rating      int       `json:"rating"`
	Ranking     int       `json:"ranking,omitempty"`
	Date        time.Time `json:"date"`
}

// RatingHistory is an ordered list of rating entries, most recent last.
type RatingHistory []RatingEntry

func (h *RatingHistory) Scan(value interface{}) error {
	if value == nil {
		*h = RatingHistory{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	return json.Unmarshal(bytes, h)
}

func (h *RatingHistory) Value() (driver.Value, error) {
	if h == nil || len(*h) == 0 {
		return "[]", nil
	}
	return json.Marshal(*h)
}
