package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Environment: "development", LogLevel: "info"},
		Server: ServerConfig{
			Port:           "8080",
			CacheTTL:       300,
			HeatmapMinYear: 2000,
			HeatmapMaxYear: 2100,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "secret",
			DBName:   "profiles",
		},
		Platforms: PlatformsConfig{LeetCode: "alice"},
		Aggregator: AggregatorConfig{
			Schedule:   "30 2 * * *",
			FetchDelay: 1,
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db name", func(c *Config) { c.Database.DBName = "" }},
		{"missing server port", func(c *Config) { c.Server.Port = "" }},
		{"inverted heatmap years", func(c *Config) { c.Server.HeatmapMinYear = 2200 }},
		{"no platforms configured", func(c *Config) { c.Platforms = PlatformsConfig{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestUsernamesCoversAllPlatforms(t *testing.T) {
	platforms := PlatformsConfig{
		LeetCode:      "a",
		Codeforces:    "b",
		CodeChef:      "c",
		GeeksforGeeks: "d",
	}

	usernames := platforms.Usernames()
	if len(usernames) != 4 {
		t.Fatalf("usernames map has %d entries, expected 4", len(usernames))
	}
	if usernames["codeforces"] != "b" || usernames["geeksforgeeks"] != "d" {
		t.Errorf("unexpected usernames map: %v", usernames)
	}
}

func TestAnyConfigured(t *testing.T) {
	empty := PlatformsConfig{}
	if empty.AnyConfigured() {
		t.Error("empty platforms reported as configured")
	}

	one := PlatformsConfig{CodeChef: "bob"}
	if !one.AnyConfigured() {
		t.Error("single configured platform not detected")
	}
}

func TestSafeStringHidesPassword(t *testing.T) {
	cfg := validConfig()
	out := cfg.SafeString()

	if strings.Contains(out, "secret") {
		t.Error("SafeString leaks the database password")
	}
	if !strings.Contains(out, "alice") {
		t.Error("SafeString missing the configured username")
	}
	if !strings.Contains(out, "(not set)") {
		t.Error("SafeString should mark unconfigured platforms")
	}
}
