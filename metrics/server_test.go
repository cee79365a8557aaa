package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Health(t *testing.T) {
	s := NewServer(":0", nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Health_Unhealthy(t *testing.T) {
	s := NewServer(":0", func(ctx context.Context) bool { return false })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := NewServer(":0", nil)
	MessagesConsumedTotal.WithLabelValues("challenge.notification.events").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ratings_processor_messages_consumed_total")
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil)
	s.Start()

	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.Err())
}

func TestCollector(t *testing.T) {
	c := NewCollector("rating.service.events")

	c.IncConsumed()
	c.IncDecodeFailure()
	c.IncHandlerError()
	c.IncCommit()
	c.ObserveProcessingDuration(0.25)
}
