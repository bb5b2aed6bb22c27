package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JHOFER-Cloud/solaredge-exporter/solaredge"
	"github.com/joho/godotenv"
)

const (
	defaultPort            = "9090"
	defaultTimeout         = 10 * time.Second
	defaultArchiveInterval = 15 * time.Minute
)

// Config holds the exporter settings read from the environment
type Config struct {
	Sites     []SiteConfig
	Port      string
	BaseURL   string
	Timeout   time.Duration
	LogLevel  slog.Level
	LogFormat string
	Influx    *InfluxConfig // nil when archiving is disabled
}

// InfluxConfig holds the optional InfluxDB archive settings
type InfluxConfig struct {
	URL      string
	Token    string
	Org      string
	Bucket   string
	Interval time.Duration
}

// loadConfig reads .env (if present) and then the process environment
func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	sites, err := parseSites()
	if err != nil {
		return nil, err
	}

	timeout, err := parseDuration("SOLAREDGE_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}

	influx, err := parseInflux()
	if err != nil {
		return nil, err
	}

	baseURL := os.Getenv("SOLAREDGE_BASE_URL")
	if baseURL == "" {
		baseURL = solaredge.BaseURL
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}

	return &Config{
		Sites:     sites,
		Port:      getPort(),
		BaseURL:   baseURL,
		Timeout:   timeout,
		LogLevel:  parseLogLevel(os.Getenv("LOG_LEVEL")),
		LogFormat: logFormat,
		Influx:    influx,
	}, nil
}

// parseSites parses site configuration from environment variables
func parseSites() ([]SiteConfig, error) {
	tokens := os.Getenv("SOLAREDGE_TOKENS")
	if tokens == "" {
		return nil, fmt.Errorf("SOLAREDGE_TOKENS must be set")
	}

	tokenList := strings.Split(tokens, ",")
	names := strings.Split(os.Getenv("SOLAREDGE_NAMES"), ",")

	var siteIDs []string
	if ids := os.Getenv("SOLAREDGE_SITE_IDS"); ids != "" {
		siteIDs = strings.Split(ids, ",")
		if len(siteIDs) != len(tokenList) {
			return nil, fmt.Errorf("number of site IDs (%d) must match number of tokens (%d)", len(siteIDs), len(tokenList))
		}
	}

	sites := make([]SiteConfig, 0, len(tokenList))
	for i := range tokenList {
		token := strings.TrimSpace(tokenList[i])
		if token == "" {
			continue
		}

		name := "site" + strconv.Itoa(i)
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			name = strings.TrimSpace(names[i])
		}

		var siteID string
		if siteIDs != nil {
			siteID = strings.TrimSpace(siteIDs[i])
		}

		sites = append(sites, SiteConfig{
			Name:   name,
			Token:  token,
			SiteID: siteID,
		})
	}

	if len(sites) == 0 {
		return nil, fmt.Errorf("no valid sites configured")
	}

	return sites, nil
}

// parseInflux returns nil when INFLUX_URL is unset
func parseInflux() (*InfluxConfig, error) {
	url := os.Getenv("INFLUX_URL")
	if url == "" {
		return nil, nil
	}

	cfg := &InfluxConfig{
		URL:    url,
		Token:  os.Getenv("INFLUX_TOKEN"),
		Org:    os.Getenv("INFLUX_ORG"),
		Bucket: os.Getenv("INFLUX_BUCKET"),
	}
	for key, v := range map[string]string{
		"INFLUX_TOKEN":  cfg.Token,
		"INFLUX_ORG":    cfg.Org,
		"INFLUX_BUCKET": cfg.Bucket,
	} {
		if v == "" {
			return nil, fmt.Errorf("%s must be set when INFLUX_URL is set", key)
		}
	}

	interval, err := parseDuration("ARCHIVE_INTERVAL", defaultArchiveInterval)
	if err != nil {
		return nil, err
	}
	cfg.Interval = interval

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// getPort returns the configured port or the default
func getPort() string {
	port := os.Getenv("EXPORTER_PORT")
	if port == "" {
		port = defaultPort
	}
	return port
}
