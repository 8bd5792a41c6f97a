package platform

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"coding-profile-api/internal/models"
)

// CodeforcesClient fetches stats from the official REST API. The three
// endpoints (user.info, user.rating, user.status) are independent
// read-only queries and run concurrently within a single fetch.
type CodeforcesClient struct {
	httpClient   *http.Client
	statusClient *http.Client // full submission history is slow
	BaseURL      string
}

func NewCodeforcesClient() *CodeforcesClient {
	return &CodeforcesClient{
		httpClient:   newHTTPClient(10 * time.Second),
		statusClient: newHTTPClient(15 * time.Second),
		BaseURL:      "https://codeforces.com/api",
	}
}

func (c *CodeforcesClient) Platform() string {
	return models.PlatformCodeforces
}

func (c *CodeforcesClient) Fetch(ctx context.Context, handle string) *models.PlatformStats {
	return runChain(ctx, models.PlatformCodeforces, []strategy{
		{name: "official-api", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchOfficial(ctx, handle)
		}},
	})
}

func (c *CodeforcesClient) fetchOfficial(ctx context.Context, handle string) (*models.PlatformStats, error) {
	var (
		infoResp   cfUserInfoResponse
		ratingResp cfRatingResponse
		statusResp cfStatusResponse

		infoErr, ratingErr, statusErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		url := fmt.Sprintf("%s/user.info?handles=%s", c.BaseURL, handle)
		infoErr = getJSON(ctx, c.httpClient, url, nil, &infoResp)
	}()

	go func() {
		defer wg.Done()
		url := fmt.Sprintf("%s/user.rating?handle=%s", c.BaseURL, handle)
		ratingErr = getJSON(ctx, c.httpClient, url, nil, &ratingResp)
	}()

	go func() {
		defer wg.Done()
		url := fmt.Sprintf("%s/user.status?handle=%s&from=1&count=10000", c.BaseURL, handle)
		statusErr = getJSON(ctx, c.statusClient, url, nil, &statusResp)
	}()

	wg.Wait()

	if infoErr != nil {
		return nil, fmt.Errorf("user.info: %w", infoErr)
	}
	if ratingErr != nil {
		return nil, fmt.Errorf("user.rating: %w", ratingErr)
	}
	if statusErr != nil {
		return nil, fmt.Errorf("user.status: %w", statusErr)
	}

	if len(infoResp.Result) == 0 {
		return nil, fmt.Errorf("codeforces user %q not found", handle)
	}
	userInfo := infoResp.Result[0]

	// Solved count is the cardinality of distinct accepted problems,
	// not the raw submission count.
	solvedSet := make(map[string]struct{})
	submissionsByDate := make(models.DayCounts)

	for _, sub := range statusResp.Result {
		if sub.Verdict == "OK" {
			key := fmt.Sprintf("%d-%s", sub.Problem.ContestID, sub.Problem.Index)
			solvedSet[key] = struct{}{}
		}

		date := time.Unix(sub.CreationTimeSeconds, 0).Format("2006-01-02")
		submissionsByDate[date]++
	}

	ratingHistory := ratingResp.Result
	if len(ratingHistory) > 20 {
		ratingHistory = ratingHistory[len(ratingHistory)-20:]
	}

	stats := &models.PlatformStats{
		Username:          handle,
		Rating:            userInfo.Rating,
		MaxRating:         userInfo.MaxRating,
		Rank:              userInfo.Rank,
		TotalSolved:       len(solvedSet),
		TotalSubmissions:  len(statusResp.Result),
		SubmissionsByDate: submissionsByDate,
		FetchStatus:       models.FetchStatusSuccess,
	}

	if stats.Rank == "" {
		stats.Rank = "unrated"
	}

	for _, r := range ratingHistory {
		stats.RatingHistory = append(stats.RatingHistory, models.RatingEntry{
			ContestID:   r.ContestID,
			ContestName: r.ContestName,
			Rating:      r.NewRating,
			Date:        time.Unix(r.RatingUpdateTimeSeconds, 0),
		})
	}

	return stats, nil
}

type cfUserInfoResponse struct {
	Status string `json:"status"`
	Result []struct {
		Handle    string `json:"handle"`
		Rating    int    `json:"rating"`
		MaxRating int    `json:"maxRating"`
		Rank      string `json:"rank"`
	} `json:"result"`
}

type cfRatingResponse struct {
	Status string `json:"status"`
	Result []struct {
		ContestID               int    `json:"contestId"`
		ContestName             string `json:"contestName"`
		NewRating               int    `json:"newRating"`
		RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	} `json:"result"`
}

type cfStatusResponse struct {
	Status string `json:"status"`
	Result []cfSubmission `json:"result"`
}

type cfSubmission struct {
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	Problem             struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
	} `json:"problem"`
}
