package platform

import (
	"context"
	"errors"
	"testing"

	"coding-profile-api/internal/models"
)

func TestRunChainShortCircuitsOnFirstSuccess(t *testing.T) {
	secondCalled := false

	stats := runChain(context.Background(), models.PlatformCodeChef, []strategy{
		{name: "first", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return &models.PlatformStats{Username: "bob", FetchStatus: models.FetchStatusSuccess}, nil
		}},
		{name: "second", run: func(ctx context.Context) (*models.PlatformStats, error) {
			secondCalled = true
			return nil, errors.New("should not run")
		}},
	})

	if secondCalled {
		t.Error("chain did not short-circuit on first accepted result")
	}
	if stats.FetchStatus != models.FetchStatusSuccess {
		t.Errorf("status = %s, expected success", stats.FetchStatus)
	}
	if stats.Platform != models.PlatformCodeChef {
		t.Errorf("platform = %s, expected codechef", stats.Platform)
	}
	if stats.LastFetched.IsZero() {
		t.Error("LastFetched not set")
	}
}

func TestRunChainAdvancesPastFailures(t *testing.T) {
	stats := runChain(context.Background(), models.PlatformGeeksforGeeks, []strategy{
		{name: "down", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return nil, errors.New("connection refused")
		}},
		{name: "implausible", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return nil, errors.New("implausible response")
		}},
		{name: "scrape", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return &models.PlatformStats{Username: "carol", FetchStatus: models.FetchStatusPartial}, nil
		}},
	})

	if stats.FetchStatus != models.FetchStatusPartial {
		t.Errorf("status = %s, expected partial from the scrape fallback", stats.FetchStatus)
	}
	if stats.Username != "carol" {
		t.Errorf("username = %s, expected carol", stats.Username)
	}
}

func TestRunChainExhaustionReportsFirstError(t *testing.T) {
	stats := runChain(context.Background(), models.PlatformCodeChef, []strategy{
		{name: "first", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return nil, errors.New("primary endpoint gone")
		}},
		{name: "second", run: func(ctx context.Context) (*models.PlatformStats, error) {
			return nil, errors.New("mirror also gone")
		}},
	})

	if !stats.IsFailed() {
		t.Fatalf("status = %s, expected failed", stats.FetchStatus)
	}
	if stats.ErrorMessage != "primary endpoint gone" {
		t.Errorf("error message = %q, expected the first strategy's error", stats.ErrorMessage)
	}
}

func TestRunChainEmptyStrategies(t *testing.T) {
	stats := runChain(context.Background(), models.PlatformLeetCode, nil)

	if !stats.IsFailed() {
		t.Fatalf("status = %s, expected failed", stats.FetchStatus)
	}
	if stats.ErrorMessage == "" {
		t.Error("expected a generic aggregate error message")
	}
}
