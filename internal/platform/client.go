package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"coding-profile-api/internal/models"
)

// Client fetches one platform's statistics for a username. Fetch never
// returns an error: every failure mode is encoded in the record's
// FetchStatus and ErrorMessage, so the orchestrator needs no platform
// knowledge.
type Client interface {
	Platform() string
	Fetch(ctx context.Context, username string) *models.PlatformStats
}

// strategy is one acquisition method in a client's fallback chain. run
// returns an error both on transport/parse failures and when the payload
// fails the platform's plausibility check, advancing the chain either way.
type strategy struct {
	name string
	run  func(ctx context.Context) (*models.PlatformStats, error)
}

// runChain tries strategies in order and short-circuits on the first
// accepted result. When every strategy fails, the returned record is
// marked failed with the error from the first attempted strategy, the
// earliest and most authoritative signal.
func runChain(ctx context.Context, platform string, strategies []strategy) *models.PlatformStats {
	var firstErr error

	for _, st := range strategies {
		stats, err := st.run(ctx)
		if err != nil {
			log.Printf("⚠️  %s: strategy %q failed: %v", platform, st.name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		stats.Platform = platform
		stats.LastFetched = time.Now()
		log.Printf("✅ %s: fetched via %q (status: %s)", platform, st.name, stats.FetchStatus)
		return stats
	}

	message := "all fetch strategies failed"
	if firstErr != nil {
		message = firstErr.Error()
	}

	log.Printf("❌ %s: all fetch strategies exhausted", platform)
	return models.FailedStats(platform, message)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}, headers map[string]string, out interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonPayload)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func getHTML(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
