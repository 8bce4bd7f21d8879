package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

func healthServer(db Pinger) *Server {
	return NewServer(nil, nil, nil, nil, nil, nil, db, "docflow_session", false)
}

func TestHealthLive(t *testing.T) {
	srv := healthServer(&stubPinger{})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthReady(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		srv := healthServer(&stubPinger{})
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Status string          `json:"status"`
			Checks map[string]bool `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body.Status)
		assert.True(t, body.Checks["database"])
	})

	t.Run("database down", func(t *testing.T) {
		srv := healthServer(&stubPinger{err: errors.New("connection refused")})
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body struct {
			Status string          `json:"status"`
			Checks map[string]bool `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_ready", body.Status)
		assert.False(t, body.Checks["database"])
	})
}
