package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-lines/internal/metrics"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubCircuit struct{ open bool }

func (c stubCircuit) IsOpen() bool { return c.open }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(Config{ServiceName: "value-lines", Version: "1.2.0", Port: "0"})

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.0", body.Version)

	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/live").Code)
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		db       DatabasePinger
		provider CircuitReporter
		code     int
		checks   map[string]string
	}{
		{
			name:   "not marked ready",
			code:   http.StatusServiceUnavailable,
			checks: map[string]string{"service": "not_ready"},
		},
		{
			name:   "ready without dependencies",
			ready:  true,
			code:   http.StatusOK,
			checks: map[string]string{"service": "ok"},
		},
		{
			name:   "database down",
			ready:  true,
			db:     stubPinger{err: errors.New("connection refused")},
			code:   http.StatusServiceUnavailable,
			checks: map[string]string{"service": "ok", "database": "error: connection refused"},
		},
		{
			name:     "open circuit stays ready",
			ready:    true,
			db:       stubPinger{},
			provider: stubCircuit{open: true},
			code:     http.StatusOK,
			checks:   map[string]string{"service": "ok", "database": "ok", "provider": "circuit_open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "value-lines", Port: "0", DB: tt.db, Provider: tt.provider})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.code, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.checks, body.Checks)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RecordEngineRun(0.01)

	s := NewServer(Config{ServiceName: "value-lines", Port: "0", MetricsPath: "/metrics"})
	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "value_lines_")

	bare := NewServer(Config{ServiceName: "value-lines", Port: "0"})
	assert.Equal(t, http.StatusNotFound, get(t, bare.Handler(), "/metrics").Code)
}
