package platform

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"coding-profile-api/internal/models"
)

var (
	ccRatingRe  = regexp.MustCompile(`class="rating-number">(\d+)</`)
	ccHighestRe = regexp.MustCompile(`(?s)Highest Rating.*?(\d+)`)
	ccStarsRe   = regexp.MustCompile(`rating-star`)
	ccSolvedRe  = regexp.MustCompile(`Total Problems Solved:\s*(\d+)`)
)

// CodeChefClient has no official API to lean on. The chain falls back
// through unofficial mirrors and finally raw HTML extraction from the
// public profile page.
type CodeChefClient struct {
	httpClient *http.Client
	MirrorURL  string // codechef-api.vercel.app
	AltURL     string // competitive-coding-api
	StatsURL   string // codechef-stats-api.vercel.app
	ProfileURL string // www.codechef.com, HTML fallback
}

func NewCodeChefClient() *CodeChefClient {
	return &CodeChefClient{
		httpClient: newHTTPClient(15 * time.Second),
		MirrorURL:  "https://codechef-api.vercel.app",
		AltURL:     "https://competitive-coding-api.herokuapp.com/api/codechef",
		StatsURL:   "https://codechef-stats-api.vercel.app",
		ProfileURL: "https://www.codechef.com",
	}
}

func (c *CodeChefClient) Platform() string {
	return models.PlatformCodeChef
}

func (c *CodeChefClient) Fetch(ctx context.Context, username string) *models.PlatformStats {
	return runChain(ctx, models.PlatformCodeChef, []strategy{
		{name: "mirror-api", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchMirror(ctx, username)
		}},
		{name: "alt-api", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchAlt(ctx, username)
		}},
		{name: "stats-api", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchStatsAPI(ctx, username)
		}},
		{name: "html-scrape", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.scrapeProfile(ctx, username)
		}},
	})
}

func (c *CodeChefClient) fetchMirror(ctx context.Context, username string) (*models.PlatformStats, error) {
	var data ccMirrorResponse
	url := fmt.Sprintf("%s/handle/%s", c.MirrorURL, username)
	if err := getJSON(ctx, c.httpClient, url, nil, &data); err != nil {
		return nil, err
	}

	// Plausibility: a profile without a rating is an empty or error payload.
	if data.CurrentRating == 0 {
		return nil, fmt.Errorf("implausible response: no rating for %q", username)
	}

	resolvedName := data.Name
	if resolvedName == "" {
		resolvedName = username
	}

	return &models.PlatformStats{
		Username:    resolvedName,
		Rating:      data.CurrentRating,
		MaxRating:   data.HighestRating,
		Stars:       parseStars(data.Stars),
		GlobalRank:  data.GlobalRank,
		CountryRank: data.CountryRank,
		TotalSolved: data.FullySolvedCount,
		FetchStatus: models.FetchStatusSuccess,
	}, nil
}

func (c *CodeChefClient) fetchAlt(ctx context.Context, username string) (*models.PlatformStats, error) {
	var data ccAltResponse
	url := fmt.Sprintf("%s/%s", c.AltURL, username)
	if err := getJSON(ctx, c.httpClient, url, nil, &data); err != nil {
		return nil, err
	}

	rating := data.CurrentRating
	if rating == 0 {
		rating = data.Rating
	}
	if rating == 0 {
		return nil, fmt.Errorf("implausible response: no rating for %q", username)
	}

	maxRating := data.HighestRating
	if maxRating == 0 {
		maxRating = data.MaxRating
	}

	solved := data.FullySolvedCount
	if solved == 0 {
		solved = data.ProblemsSolved
	}

	return &models.PlatformStats{
		Username:    username,
		Rating:      rating,
		MaxRating:   maxRating,
		Stars:       parseStars(data.Stars),
		TotalSolved: solved,
		FetchStatus: models.FetchStatusSuccess,
	}, nil
}

func (c *CodeChefClient) fetchStatsAPI(ctx context.Context, username string) (*models.PlatformStats, error) {
	var data ccStatsResponse
	url := fmt.Sprintf("%s/user/%s", c.StatsURL, username)
	if err := getJSON(ctx, c.httpClient, url, nil, &data); err != nil {
		return nil, err
	}

	if data.Error != "" {
		return nil, fmt.Errorf("stats api error: %s", data.Error)
	}

	rating := data.CurrentRating
	if rating == 0 {
		rating = data.Rating
	}
	if rating == 0 {
		return nil, fmt.Errorf("implausible response: no rating for %q", username)
	}

	solved := data.ProblemsSolved
	if solved == 0 {
		solved = data.FullySolvedCount
	}

	return &models.PlatformStats{
		Username:    username,
		Rating:      rating,
		MaxRating:   data.HighestRating,
		Stars:       data.Stars,
		TotalSolved: solved,
		FetchStatus: models.FetchStatusSuccess,
	}, nil
}

// scrapeProfile extracts fields from the public profile page with
// regexes. Solved-count extraction is allowed to fail (left 0); the
// record is marked partial either way.
func (c *CodeChefClient) scrapeProfile(ctx context.Context, username string) (*models.PlatformStats, error) {
	html, err := getHTML(ctx, c.httpClient, fmt.Sprintf("%s/users/%s", c.ProfileURL, username))
	if err != nil {
		return nil, err
	}

	rating := 0
	if m := ccRatingRe.FindStringSubmatch(html); len(m) > 1 {
		rating, _ = strconv.Atoi(m[1])
	}

	if rating == 0 {
		return nil, fmt.Errorf("could not extract rating from profile page")
	}

	maxRating := rating
	if m := ccHighestRe.FindStringSubmatch(html); len(m) > 1 {
		if v, err := strconv.Atoi(m[1]); err == nil {
			maxRating = v
		}
	}

	totalSolved := 0
	if m := ccSolvedRe.FindStringSubmatch(html); len(m) > 1 {
		totalSolved, _ = strconv.Atoi(m[1])
	}

	return &models.PlatformStats{
		Username:    username,
		Rating:      rating,
		MaxRating:   maxRating,
		Stars:       len(ccStarsRe.FindAllString(html, -1)),
		TotalSolved: totalSolved,
		FetchStatus: models.FetchStatusPartial,
	}, nil
}

// parseStars handles the "5★" / "5" shapes mirrors return.
func parseStars(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, "★", ""))
	if s == "" {
		return 0
	}
	stars, _ := strconv.Atoi(s)
	return stars
}

type ccMirrorResponse struct {
	Name             string `json:"name"`
	CurrentRating    int    `json:"currentRating"`
	HighestRating    int    `json:"highestRating"`
	Stars            string `json:"stars"`
	GlobalRank       int    `json:"globalRank"`
	CountryRank      int    `json:"countryRank"`
	FullySolvedCount int    `json:"fullySolvedCount"`
}

type ccAltResponse struct {
	Rating           int    `json:"rating"`
	CurrentRating    int    `json:"currentRating"`
	MaxRating        int    `json:"maxRating"`
	HighestRating    int    `json:"highestRating"`
	Stars            string `json:"stars"`
	FullySolvedCount int    `json:"fullySolvedCount"`
	ProblemsSolved   int    `json:"problemsSolved"`
}

type ccStatsResponse struct {
	Error            string `json:"error"`
	Rating           int    `json:"rating"`
	CurrentRating    int    `json:"currentRating"`
	HighestRating    int    `json:"highestRating"`
	Stars            int    `json:"stars"`
	ProblemsSolved   int    `json:"problemsSolved"`
	FullySolvedCount int    `json:"fullySolvedCount"`
}
