package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coding-profile-api/internal/models"
)

func newCodeforcesTestClient(url string) *CodeforcesClient {
	return &CodeforcesClient{
		httpClient:   newHTTPClient(2 * time.Second),
		statusClient: newHTTPClient(2 * time.Second),
		BaseURL:      url,
	}
}

func codeforcesTestServer(infoBody, ratingBody, statusBody string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(infoBody))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratingBody))
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statusBody))
	})
	return httptest.NewServer(mux)
}

const cfInfoBody = `{"status":"OK","result":[{"handle":"tourist_jr","rating":1900,"maxRating":2100,"rank":"candidate master"}]}`

const cfRatingBody = `{"status":"OK","result":[
  {"contestId":1498,"contestName":"Round 700","newRating":1850,"ratingUpdateTimeSeconds":1616000000},
  {"contestId":1512,"contestName":"Round 701","newRating":1900,"ratingUpdateTimeSeconds":1617000000}
]}`

// Two accepted submissions for (1500,"A"), one rejected for (1500,"B"):
// totalSolved must count distinct accepted problems only.
const cfStatusBody = `{"status":"OK","result":[
  {"creationTimeSeconds":1617200000,"verdict":"OK","problem":{"contestId":1500,"index":"A"}},
  {"creationTimeSeconds":1617210000,"verdict":"OK","problem":{"contestId":1500,"index":"A"}},
  {"creationTimeSeconds":1617220000,"verdict":"WRONG_ANSWER","problem":{"contestId":1500,"index":"B"}}
]}`

func TestCodeforcesFetchSuccess(t *testing.T) {
	server := codeforcesTestServer(cfInfoBody, cfRatingBody, cfStatusBody)
	defer server.Close()

	client := newCodeforcesTestClient(server.URL)
	stats := client.Fetch(context.Background(), "tourist_jr")

	if stats.FetchStatus != models.FetchStatusSuccess {
		t.Fatalf("status = %s (%s), expected success", stats.FetchStatus, stats.ErrorMessage)
	}
	if stats.Rating != 1900 || stats.MaxRating != 2100 {
		t.Errorf("rating = %d/%d, expected 1900/2100", stats.Rating, stats.MaxRating)
	}
	if stats.Rank != "candidate master" {
		t.Errorf("rank = %q, expected candidate master", stats.Rank)
	}

	// Two OK verdicts for the same problem count once; the rejected
	// problem does not count at all.
	if stats.TotalSolved != 1 {
		t.Errorf("totalSolved = %d, expected 1 distinct accepted problem", stats.TotalSolved)
	}
	if stats.TotalSubmissions != 3 {
		t.Errorf("totalSubmissions = %d, expected 3", stats.TotalSubmissions)
	}

	if len(stats.RatingHistory) != 2 {
		t.Fatalf("rating history length = %d, expected 2", len(stats.RatingHistory))
	}
	if stats.RatingHistory[1].ContestID != 1512 || stats.RatingHistory[1].Rating != 1900 {
		t.Errorf("unexpected last rating entry: %+v", stats.RatingHistory[1])
	}
}

func TestCodeforcesSolvedDistinctAcrossProblems(t *testing.T) {
	statusBody := `{"status":"OK","result":[
	  {"creationTimeSeconds":1617200000,"verdict":"OK","problem":{"contestId":1500,"index":"A"}},
	  {"creationTimeSeconds":1617210000,"verdict":"OK","problem":{"contestId":1500,"index":"A"}},
	  {"creationTimeSeconds":1617220000,"verdict":"OK","problem":{"contestId":1500,"index":"B"}},
	  {"creationTimeSeconds":1617230000,"verdict":"WRONG_ANSWER","problem":{"contestId":1501,"index":"C"}}
	]}`

	server := codeforcesTestServer(cfInfoBody, cfRatingBody, statusBody)
	defer server.Close()

	client := newCodeforcesTestClient(server.URL)
	stats := client.Fetch(context.Background(), "tourist_jr")

	if stats.TotalSolved != 2 {
		t.Errorf("totalSolved = %d, expected 2", stats.TotalSolved)
	}
	if stats.TotalSubmissions != 4 {
		t.Errorf("totalSubmissions = %d, expected 4", stats.TotalSubmissions)
	}
}

func TestCodeforcesSubmissionsByDate(t *testing.T) {
	server := codeforcesTestServer(cfInfoBody, cfRatingBody, cfStatusBody)
	defer server.Close()

	client := newCodeforcesTestClient(server.URL)
	stats := client.Fetch(context.Background(), "tourist_jr")

	// All three submissions fall on the same local date.
	date := time.Unix(1617200000, 0).Format("2006-01-02")
	if stats.SubmissionsByDate[date] != 3 {
		t.Errorf("submissionsByDate[%s] = %d, expected 3", date, stats.SubmissionsByDate[date])
	}
}

func TestCodeforcesUserNotFound(t *testing.T) {
	server := codeforcesTestServer(`{"status":"OK","result":[]}`, cfRatingBody, cfStatusBody)
	defer server.Close()

	client := newCodeforcesTestClient(server.URL)
	stats := client.Fetch(context.Background(), "ghost")

	if !stats.IsFailed() {
		t.Fatalf("status = %s, expected failed for unknown handle", stats.FetchStatus)
	}
}

func TestCodeforcesPartialEndpointFailureFailsFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cfInfoBody))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cfStatusBody))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newCodeforcesTestClient(server.URL)
	stats := client.Fetch(context.Background(), "tourist_jr")

	if !stats.IsFailed() {
		t.Fatalf("status = %s, expected failed when an official endpoint errors", stats.FetchStatus)
	}
}
