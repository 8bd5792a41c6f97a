package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"coding-profile-api/internal/models"
)

const leetCodeProfileQuery = `
  query userProfile($username: String!) {
    matchedUser(username: $username) {
      username
      profile {
        ranking
      }
      submitStats {
        acSubmissionNum {
          difficulty
          count
          submissions
        }
      }
      submissionCalendar
    }
  }
`

const leetCodeContestQuery = `
  query userContestRankingInfo($username: String!) {
    userContestRanking(username: $username) {
      rating
      globalRanking
      attendedContestsCount
      topPercentage
    }
    userContestRankingHistory(username: $username) {
      contest {
        title
        startTime
      }
      rating
      ranking
    }
  }
`

// LeetCodeClient fetches stats from the official GraphQL endpoint. Two
// independent queries: profile + submission stats + submission calendar,
// and contest rating + history. The contest query is optional enrichment
// and may fail without failing the fetch.
type LeetCodeClient struct {
	httpClient *http.Client
	GraphQLURL string
}

func NewLeetCodeClient() *LeetCodeClient {
	return &LeetCodeClient{
		httpClient: newHTTPClient(10 * time.Second),
		GraphQLURL: "https://leetcode.com/graphql",
	}
}

func (c *LeetCodeClient) Platform() string {
	return models.PlatformLeetCode
}

func (c *LeetCodeClient) Fetch(ctx context.Context, username string) *models.PlatformStats {
	return runChain(ctx, models.PlatformLeetCode, []strategy{
		{name: "graphql", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchGraphQL(ctx, username)
		}},
	})
}

func (c *LeetCodeClient) fetchGraphQL(ctx context.Context, username string) (*models.PlatformStats, error) {
	headers := map[string]string{"Referer": "https://leetcode.com"}

	var profileResp leetCodeGraphQLResponse
	payload := map[string]interface{}{
		"query":     leetCodeProfileQuery,
		"variables": map[string]string{"username": username},
	}
	if err := postJSON(ctx, c.httpClient, c.GraphQLURL, payload, headers, &profileResp); err != nil {
		return nil, err
	}

	user := profileResp.Data.MatchedUser
	if user == nil {
		return nil, fmt.Errorf("leetcode user %q not found", username)
	}

	stats := &models.PlatformStats{
		Username:    user.Username,
		Ranking:     user.Profile.Ranking,
		FetchStatus: models.FetchStatusSuccess,
	}

	for _, bucket := range user.SubmitStats.ACSubmissionNum {
		switch bucket.Difficulty {
		case "All":
			stats.TotalSolved = bucket.Count
			stats.TotalSubmissions = bucket.Submissions
		case "Easy":
			stats.EasySolved = bucket.Count
		case "Medium":
			stats.MediumSolved = bucket.Count
		case "Hard":
			stats.HardSolved = bucket.Count
		}
	}

	// The calendar arrives as a JSON string mapping day-start epoch
	// seconds to submission counts.
	if user.SubmissionCalendar != "" {
		calendar := make(models.DayCounts)
		if err := json.Unmarshal([]byte(user.SubmissionCalendar), &calendar); err != nil {
			log.Printf("⚠️  leetcode: failed to parse submission calendar: %v", err)
		} else {
			stats.SubmissionCalendar = calendar
		}
	}

	c.enrichContestData(ctx, username, stats)

	return stats, nil
}

// enrichContestData fills contest rating fields. Failure leaves them
// empty and keeps the record successful.
func (c *LeetCodeClient) enrichContestData(ctx context.Context, username string, stats *models.PlatformStats) {
	var contestResp leetCodeContestResponse
	payload := map[string]interface{}{
		"query":     leetCodeContestQuery,
		"variables": map[string]string{"username": username},
	}
	headers := map[string]string{"Referer": "https://leetcode.com"}

	if err := postJSON(ctx, c.httpClient, c.GraphQLURL, payload, headers, &contestResp); err != nil {
		log.Printf("⚠️  leetcode: contest data unavailable: %v", err)
		return
	}

	if ranking := contestResp.Data.UserContestRanking; ranking != nil {
		stats.Rating = int(math.Round(ranking.Rating))
		stats.GlobalRank = ranking.GlobalRanking
		stats.AttendedContests = ranking.AttendedContestsCount
		stats.TopPercentage = ranking.TopPercentage
	}

	history := contestResp.Data.UserContestRankingHistory
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	for _, h := range history {
		stats.RatingHistory = append(stats.RatingHistory, models.RatingEntry{
			ContestName: h.Contest.Title,
			Rating:      int(math.Round(h.Rating)),
			Ranking:     h.Ranking,
			Date:        time.Unix(h.Contest.StartTime, 0),
		})
	}
}

type leetCodeGraphQLResponse struct {
	Data struct {
		MatchedUser *leetCodeMatchedUser `json:"matchedUser"`
	} `json:"data"`
}

type leetCodeMatchedUser struct {
	Username string `json:"username"`
	Profile  struct {
		Ranking int `json:"ranking"`
	} `json:"profile"`
	SubmitStats struct {
		ACSubmissionNum []leetCodeSubmissionBucket `json:"acSubmissionNum"`
	} `json:"submitStats"`
	SubmissionCalendar string `json:"submissionCalendar"`
}

type leetCodeSubmissionBucket struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type leetCodeContestResponse struct {
	Data struct {
		UserContestRanking        *leetCodeContestRanking `json:"userContestRanking"`
		UserContestRankingHistory []leetCodeContestPoint  `json:"userContestRankingHistory"`
	} `json:"data"`
}

type leetCodeContestRanking struct {
	Rating                float64 `json:"rating"`
	GlobalRanking         int     `json:"globalRanking"`
	AttendedContestsCount int     `json:"attendedContestsCount"`
	TopPercentage         float64 `json:"topPercentage"`
}

type leetCodeContestPoint struct {
	Contest struct {
		Title     string `json:"title"`
		StartTime int64  `json:"startTime"`
	} `json:"contest"`
	Rating  float64 `json:"rating"`
	Ranking int     `json:"ranking"`
}
