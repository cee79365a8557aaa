// Package config loads and validates the processor's runtime configuration
// from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// Config holds all runtime options for the processor.
type Config struct {
	// LogLevel is one of debug, info, warn, error (default: info).
	LogLevel string

	// KafkaBrokers is the list of bootstrap broker addresses (required).
	KafkaBrokers []string

	// KafkaGroupID is the consumer group id.
	KafkaGroupID string

	// LifecycleTopic is the challenge lifecycle notifications topic.
	LifecycleTopic string

	// RatingTopic is the rating-service stage-completion topic.
	RatingTopic string

	// RatingOriginator identifies the rating service in Trigger B events.
	RatingOriginator string

	// AuthTokenURL is the OAuth token endpoint for M2M tokens (required).
	AuthTokenURL string

	// AuthClientID is the M2M client id (required).
	AuthClientID string

	// AuthClientSecret is the M2M client secret (required).
	AuthClientSecret string

	// AuthAudience is the OAuth audience claim.
	AuthAudience string

	// APIBaseURL is the base URL of the v5 challenge-service API.
	APIBaseURL string

	// SubmissionPageSize is the perPage value for submission listing.
	SubmissionPageSize int

	// LegacyDBDriver selects the legacy store backend: mysql or postgres.
	LegacyDBDriver string

	// LegacyDBDSN is the data source name for the legacy store (required).
	LegacyDBDSN string

	// MetricsAddr is the listen address for the metrics/health server.
	MetricsAddr string

	// RequestTimeout bounds each outbound HTTP call.
	RequestTimeout time.Duration

	// CommitTimeout bounds each offset commit.
	CommitTimeout time.Duration
}

// Load reads configuration from the environment, applies defaults, and
// validates required values. Load failures are fatal at startup.
func Load() (Config, error) {
	pageSize, err := intEnv("SUBMISSION_PAGE_SIZE", 500)
	if err != nil {
		return Config{}, err
	}

	requestTimeout, err := durationEnv("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	commitTimeout, err := durationEnv("COMMIT_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		KafkaBrokers:       csvEnv("KAFKA_URL", []string{"localhost:9092"}),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "member-profile-processor-group"),
		LifecycleTopic:     envOrDefault("KAFKA_LIFECYCLE_TOPIC", processor.DefaultLifecycleTopic),
		RatingTopic:        envOrDefault("KAFKA_RATING_TOPIC", processor.DefaultRatingTopic),
		RatingOriginator:   envOrDefault("RATING_ORIGINATOR", processor.DefaultRatingOriginator),
		AuthTokenURL:       strings.TrimSpace(os.Getenv("AUTH0_URL")),
		AuthClientID:       strings.TrimSpace(os.Getenv("AUTH0_CLIENT_ID")),
		AuthClientSecret:   strings.TrimSpace(os.Getenv("AUTH0_CLIENT_SECRET")),
		AuthAudience:       strings.TrimSpace(os.Getenv("AUTH0_AUDIENCE")),
		APIBaseURL:         envOrDefault("V5_API_URL", "https://api.topcoder-dev.com/v5"),
		SubmissionPageSize: pageSize,
		LegacyDBDriver:     envOrDefault("LEGACY_DB_DRIVER", "mysql"),
		LegacyDBDSN:        strings.TrimSpace(os.Getenv("LEGACY_DB_DSN")),
		MetricsAddr:        envOrDefault("METRICS_ADDR", ":8080"),
		RequestTimeout:     requestTimeout,
		CommitTimeout:      commitTimeout,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_URL must list at least one broker")
	}
	if c.LifecycleTopic == "" || c.RatingTopic == "" {
		return errors.New("kafka topics must not be empty")
	}
	if c.AuthTokenURL == "" {
		return errors.New("AUTH0_URL is required")
	}
	if c.AuthClientID == "" || c.AuthClientSecret == "" {
		return errors.New("AUTH0_CLIENT_ID and AUTH0_CLIENT_SECRET are required")
	}
	if c.LegacyDBDriver != "mysql" && c.LegacyDBDriver != "postgres" {
		return fmt.Errorf("unsupported LEGACY_DB_DRIVER: %s", c.LegacyDBDriver)
	}
	if c.LegacyDBDSN == "" {
		return errors.New("LEGACY_DB_DSN is required")
	}
	if c.SubmissionPageSize < 1 {
		return errors.New("SUBMISSION_PAGE_SIZE must be >= 1")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func csvEnv(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return value, nil
}
