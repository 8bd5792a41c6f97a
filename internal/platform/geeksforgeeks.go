package platform

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"coding-profile-api/internal/models"
)

var gfgScoreCardRe = regexp.MustCompile(`score_card_value[^>]*>\s*(\d+)`)

// GeeksforGeeksClient has no per-day signal and no stable official API.
// The chain spans an internal-looking stats API, two third-party
// mirrors, and positional scraping of the profile score cards as last
// resort.
type GeeksforGeeksClient struct {
	httpClient *http.Client
	StatsURL   string // www.geeksforgeeks.org/api/vr/auth/user-stats
	MirrorURL  string // geeksforgeeks-profile-api.vercel.app
	AltURL     string // gfg-stats-api.vercel.app
	ProfileURL string // www.geeksforgeeks.org/user, HTML fallback
}

func NewGeeksforGeeksClient() *GeeksforGeeksClient {
	return &GeeksforGeeksClient{
		httpClient: newHTTPClient(15 * time.Second),
		StatsURL:   "https://www.geeksforgeeks.org/api/vr/auth/user-stats",
		MirrorURL:  "https://geeksforgeeks-profile-api.vercel.app/api",
		AltURL:     "https://gfg-stats-api.vercel.app",
		ProfileURL: "https://www.geeksforgeeks.org/user",
	}
}

func (c *GeeksforGeeksClient) Platform() string {
	return models.PlatformGeeksforGeeks
}

func (c *GeeksforGeeksClient) Fetch(ctx context.Context, username string) *models.PlatformStats {
	return runChain(ctx, models.PlatformGeeksforGeeks, []strategy{
		{name: "user-stats-api", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchUserStats(ctx, username)
		}},
		{name: "profile-mirror", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchMirror(ctx, username)
		}},
		{name: "stats-mirror", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.fetchAlt(ctx, username)
		}},
		{name: "html-scrape", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return c.scrapeProfile(ctx, username)
		}},
	})
}

func (c *GeeksforGeeksClient) fetchUserStats(ctx context.Context, username string) (*models.PlatformStats, error) {
	var resp gfgUserStatsResponse
	url := fmt.Sprintf("%s/%s", c.StatsURL, username)
	headers := map[string]string{"User-Agent": defaultUserAgent}
	if err := getJSON(ctx, c.httpClient, url, headers, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, fmt.Errorf("implausible response: no data for %q", username)
	}
	data := resp.Data

	// GFG exposes five buckets (school/basic/easy/medium/hard); the
	// canonical schema collapses them into three.
	return &models.PlatformStats{
		Username:        username,
		TotalSolved:     data.TotalProblemsSolved,
		EasySolved:      data.SchoolSolved,
		MediumSolved:    data.BasicSolved + data.EasySolved,
		HardSolved:      data.MediumSolved + data.HardSolved,
		CodingScore:     data.Score,
		MonthlyScore:    data.MonthlyScore,
		InstitutionRank: data.InstituteRank,
		FetchStatus:     models.FetchStatusSuccess,
	}, nil
}

func (c *GeeksforGeeksClient) fetchMirror(ctx context.Context, username string) (*models.PlatformStats, error) {
	var data gfgMirrorResponse
	url := fmt.Sprintf("%s/%s", c.MirrorURL, username)
	if err := getJSON(ctx, c.httpClient, url, nil, &data); err != nil {
		return nil, err
	}

	if data.Error != "" {
		return nil, fmt.Errorf("mirror error: %s", data.Error)
	}

	solved := data.TotalProblemsSolved
	if solved == 0 {
		solved = data.ProblemsSolved
	}
	if solved == 0 && data.CodingScore == 0 {
		return nil, fmt.Errorf("implausible response: empty profile for %q", username)
	}

	return &models.PlatformStats{
		Username:     username,
		TotalSolved:  solved,
		EasySolved:   data.School,
		MediumSolved: data.Basic + data.Easy,
		HardSolved:   data.Medium + data.Hard,
		CodingScore:  data.CodingScore,
		FetchStatus:  models.FetchStatusSuccess,
	}, nil
}

func (c *GeeksforGeeksClient) fetchAlt(ctx context.Context, username string) (*models.PlatformStats, error) {
	var data gfgAltResponse
	url := fmt.Sprintf("%s/?userName=%s", c.AltURL, username)
	if err := getJSON(ctx, c.httpClient, url, nil, &data); err != nil {
		return nil, err
	}

	if data.TotalProblemsSolved == 0 {
		return nil, fmt.Errorf("implausible response: no solved count for %q", username)
	}

	return &models.PlatformStats{
		Username:        username,
		TotalSolved:     data.TotalProblemsSolved,
		EasySolved:      data.School,
		MediumSolved:    data.Basic + data.Easy,
		HardSolved:      data.Medium + data.Hard,
		CodingScore:     data.CodingScore,
		InstitutionRank: data.InstituteRank,
		FetchStatus:     models.FetchStatusSuccess,
	}, nil
}

// scrapeProfile reads the profile page score cards positionally: the
// first matched value is the coding score, the second the problem
// count. Brittle by construction, so the result is marked partial.
func (c *GeeksforGeeksClient) scrapeProfile(ctx context.Context, username string) (*models.PlatformStats, error) {
	html, err := getHTML(ctx, c.httpClient, fmt.Sprintf("%s/%s/", c.ProfileURL, username))
	if err != nil {
		return nil, err
	}

	matches := gfgScoreCardRe.FindAllStringSubmatch(html, -1)
	if len(matches) < 2 {
		return nil, fmt.Errorf("could not extract score cards from profile page")
	}

	codingScore, _ := strconv.Atoi(matches[0][1])
	totalSolved, _ := strconv.Atoi(matches[1][1])

	if totalSolved == 0 && codingScore == 0 {
		return nil, fmt.Errorf("implausible scrape: empty score cards for %q", username)
	}

	return &models.PlatformStats{
		Username:    username,
		TotalSolved: totalSolved,
		CodingScore: codingScore,
		FetchStatus: models.FetchStatusPartial,
	}, nil
}

type gfgUserStatsResponse struct {
	Data *gfgUserStats `json:"data"`
}

type gfgUserStats struct {
	TotalProblemsSolved int `json:"total_problems_solved"`
	SchoolSolved        int `json:"school_solved"`
	BasicSolved         int `json:"basic_solved"`
	EasySolved          int `json:"easy_solved"`
	MediumSolved        int `json:"medium_solved"`
	HardSolved          int `json:"hard_solved"`
	Score               int `json:"score"`
	MonthlyScore        int `json:"monthly_score"`
	InstituteRank       int `json:"institute_rank"`
}

type gfgMirrorResponse struct {
	Error               string `json:"error"`
	TotalProblemsSolved int    `json:"totalProblemsSolved"`
	ProblemsSolved      int    `json:"problemsSolved"`
	School              int    `json:"school"`
	Basic               int    `json:"basic"`
	Easy                int    `json:"easy"`
	Medium              int    `json:"medium"`
	Hard                int    `json:"hard"`
	CodingScore         int    `json:"codingScore"`
}

type gfgAltResponse struct {
	TotalProblemsSolved int `json:"totalProblemsSolved"`
	School              int `json:"School"`
	Basic               int `json:"Basic"`
	Easy                int `json:"Easy"`
	Medium              int `json:"Medium"`
	Hard                int `json:"Hard"`
	CodingScore         int `json:"codingScore"`
	InstituteRank       int `json:"instituteRank"`
}
