package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for Load to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("AUTH0_URL", "https://example.auth0.com/oauth/token")
	t.Setenv("AUTH0_CLIENT_ID", "client-id")
	t.Setenv("AUTH0_CLIENT_SECRET", "client-secret")
	t.Setenv("LEGACY_DB_DSN", "user:pass@tcp(localhost:3306)/informixoltp")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "challenge.notification.events", cfg.LifecycleTopic)
	assert.Equal(t, "rating.service.events", cfg.RatingTopic)
	assert.Equal(t, "rating.calculation.service", cfg.RatingOriginator)
	assert.Equal(t, "https://api.topcoder-dev.com/v5", cfg.APIBaseURL)
	assert.Equal(t, 500, cfg.SubmissionPageSize)
	assert.Equal(t, "mysql", cfg.LegacyDBDriver)
	assert.Equal(t, ":8080", cfg.MetricsAddr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.CommitTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_URL", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_LIFECYCLE_TOPIC", "test.lifecycle")
	t.Setenv("SUBMISSION_PAGE_SIZE", "100")
	t.Setenv("LEGACY_DB_DRIVER", "postgres")
	t.Setenv("COMMIT_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "test.lifecycle", cfg.LifecycleTopic)
	assert.Equal(t, 100, cfg.SubmissionPageSize)
	assert.Equal(t, "postgres", cfg.LegacyDBDriver)
	assert.Equal(t, 10*time.Second, cfg.CommitTimeout)
}

func TestLoad_MissingAuth(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH0_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDSN(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LEGACY_DB_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LEGACY_DB_DRIVER", "informix")

	_, err := Load()
	assert.ErrorContains(t, err, "LEGACY_DB_DRIVER")
}

func TestLoad_InvalidPageSize(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUBMISSION_PAGE_SIZE", "zero")

	_, err := Load()
	assert.ErrorContains(t, err, "SUBMISSION_PAGE_SIZE")

	t.Setenv("SUBMISSION_PAGE_SIZE", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
}
