package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config for the presence daemon.
type Config struct {
	RedisURL string

	NetworkPollInterval      time.Duration
	ConnectivityPollInterval time.Duration
	CalendarPollInterval     time.Duration
	ConnectivityProbeAddr    string

	CalendarFile string

	// Optional fixed location of the host, used to disambiguate shared
	// networks.
	Location *Coordinates
}

type Coordinates struct {
	Lat float64
	Lon float64
}

// OAuthConfig for the callback service.
type OAuthConfig struct {
	ServerPort        string
	SlackClientID     string
	SlackClientSecret string
	SlackRedirectURI  string
	FrontendURL       string
}

func Load() (*Config, error) {
	cfg := &Config{
		RedisURL:              os.Getenv("REDIS_URL"),
		ConnectivityProbeAddr: getEnv("CONNECTIVITY_PROBE_ADDR", "slack.com:443"),
		CalendarFile:          os.Getenv("CALENDAR_FILE"),
	}

	var err error
	if cfg.NetworkPollInterval, err = getDuration("NETWORK_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ConnectivityPollInterval, err = getDuration("CONNECTIVITY_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CalendarPollInterval, err = getDuration("CALENDAR_POLL_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	latStr, lonStr := os.Getenv("LOCATION_LAT"), os.Getenv("LOCATION_LON")
	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, errors.New("invalid LOCATION_LAT")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, errors.New("invalid LOCATION_LON")
		}
		cfg.Location = &Coordinates{Lat: lat, Lon: lon}
	}

	return cfg, nil
}

func LoadOAuth() (*OAuthConfig, error) {
	cfg := &OAuthConfig{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		SlackClientID:     os.Getenv("SLACK_CLIENT_ID"),
		SlackClientSecret: os.Getenv("SLACK_CLIENT_SECRET"),
		SlackRedirectURI:  os.Getenv("SLACK_REDIRECT_URI"),
		FrontendURL:       os.Getenv("FRONTEND_URL"),
	}

	// Validate required fields
	if cfg.SlackClientID == "" {
		return nil, errors.New("SLACK_CLIENT_ID is required")
	}
	if cfg.SlackClientSecret == "" {
		return nil, errors.New("SLACK_CLIENT_SECRET is required")
	}
	if cfg.SlackRedirectURI == "" {
		return nil, errors.New("SLACK_REDIRECT_URI is required")
	}
	if cfg.FrontendURL == "" {
		return nil, errors.New("FRONTEND_URL is required")
	}

	return cfg, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.New("invalid " + key + " format")
	}
	return d, nil
}
