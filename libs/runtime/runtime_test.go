package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevelAndService(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "web-service", "warn")

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "web-service", entry["service"])
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestReadyz(t *testing.T) {
	mux := NewBaseMux(
		ReadyCheck{Name: "ok", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "backend", Check: func(context.Context) error { return errors.New("unreachable") }},
	)

	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rw.Code)
	assert.Equal(t, "backend: unreachable", rw.Body.String())

	rw = httptest.NewRecorder()
	mux.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rw.Code)
}
