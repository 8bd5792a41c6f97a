package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `yaml:"app" mapstructure:"app"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Platforms  PlatformsConfig  `yaml:"platforms" mapstructure:"platforms"`
	Aggregator AggregatorConfig `yaml:"aggregator" mapstructure:"aggregator"`
}

type AppConfig struct {
	Environment string `yaml:"environment" mapstructure:"environment"`
	LogLevel    string `yaml:"log_level" mapstructure:"log_level"`
}

type ServerConfig struct {
	Host           string   `yaml:"host" mapstructure:"host"`
	Port           string   `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	CacheTTL       int      `yaml:"cache_ttl" mapstructure:"cache_ttl"`           // seconds
	HeatmapMinYear int      `yaml:"heatmap_min_year" mapstructure:"heatmap_min_year"`
	HeatmapMaxYear int      `yaml:"heatmap_max_year" mapstructure:"heatmap_max_year"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"db_name" mapstructure:"db_name"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxConns int    `yaml:"max_conns" mapstructure:"max_conns"`
}

// PlatformsConfig holds the tracked username per platform. A platform
// with an empty username is skipped entirely by the aggregator.
type PlatformsConfig struct {
	LeetCode      string `yaml:"leetcode" mapstructure:"leetcode"`
	Codeforces    string `yaml:"codeforces" mapstructure:"codeforces"`
	CodeChef      string `yaml:"codechef" mapstructure:"codechef"`
	GeeksforGeeks string `yaml:"geeksforgeeks" mapstructure:"geeksforgeeks"`
}

type AggregatorConfig struct {
	Schedule   string `yaml:"schedule" mapstructure:"schedule"`       // cron expression
	FetchDelay int    `yaml:"fetch_delay" mapstructure:"fetch_delay"` // seconds between platforms
	RunOnStart bool   `yaml:"run_on_start" mapstructure:"run_on_start"`
	StartDelay int    `yaml:"start_delay" mapstructure:"start_delay"` // seconds before initial run
}

func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Database.Host = getEnv("DB_HOST", config.Database.Host)
	config.Database.User = getEnv("DB_USER", config.Database.User)
	config.Database.Password = getEnv("DB_PASSWORD", config.Database.Password)
	config.Database.DBName = getEnv("DB_NAME", config.Database.DBName)
	config.Database.Port = getEnv("DB_PORT", config.Database.Port)

	config.Platforms.LeetCode = getEnv("LEETCODE_USERNAME", config.Platforms.LeetCode)
	config.Platforms.Codeforces = getEnv("CODEFORCES_USERNAME", config.Platforms.Codeforces)
	config.Platforms.CodeChef = getEnv("CODECHEF_USERNAME", config.Platforms.CodeChef)
	config.Platforms.GeeksforGeeks = getEnv("GFG_USERNAME", config.Platforms.GeeksforGeeks)

	config.Server.Port = getEnv("PORT", config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.cache_ttl", 300)
	viper.SetDefault("server.heatmap_min_year", 2000)
	viper.SetDefault("server.heatmap_max_year", 2100)

	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 20)

	viper.SetDefault("aggregator.schedule", "30 2 * * *")
	viper.SetDefault("aggregator.fetch_delay", 1)
	viper.SetDefault("aggregator.run_on_start", true)
	viper.SetDefault("aggregator.start_delay", 5)
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}

	if c.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database.db_name is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.Server.HeatmapMinYear >= c.Server.HeatmapMaxYear {
		return fmt.Errorf("server.heatmap_min_year must be below heatmap_max_year")
	}

	if !c.Platforms.AnyConfigured() {
		return fmt.Errorf("at least one platform username must be configured")
	}

	return nil
}

// Usernames returns the configured username per platform key.
func (p *PlatformsConfig) Usernames() map[string]string {
	return map[string]string{
		"leetcode":      p.LeetCode,
		"codeforces":    p.Codeforces,
		"codechef":      p.CodeChef,
		"geeksforgeeks": p.GeeksforGeeks,
	}
}

func (p *PlatformsConfig) AnyConfigured() bool {
	return p.LeetCode != "" || p.Codeforces != "" || p.CodeChef != "" || p.GeeksforGeeks != ""
}

func (c *Config) SafeString() string {
	return fmt.Sprintf(`Config:
		Environment: %s
		Port: %s
		Log Level: %s

		Database:
			Host: %s:%s
			User: %s
			Database: %s
			SSL Mode: %s
			Max Connections: %d

		Platforms:
			LeetCode: %s
			Codeforces: %s
			CodeChef: %s
			GeeksforGeeks: %s

		Aggregator:
			Schedule: %s
			Fetch Delay: %ds
			Run On Start: %t

		Cache TTL: %ds
		`,
		c.App.Environment,
		c.Server.Port,
		c.App.LogLevel,
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.DBName,
		c.Database.SSLMode,
		c.Database.MaxConns,
		orUnset(c.Platforms.LeetCode),
		orUnset(c.Platforms.Codeforces),
		orUnset(c.Platforms.CodeChef),
		orUnset(c.Platforms.GeeksforGeeks),
		c.Aggregator.Schedule,
		c.Aggregator.FetchDelay,
		c.Aggregator.RunOnStart,
		c.Server.CacheTTL,
	)
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
