package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/memories/internal/calendar"
	"github.com/sakif/memories/internal/handler"
)

func TestStats(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	stats := decode[calendar.Stats](t, rr)
	assert.Equal(t, "2022-10-16", stats.Since)
	assert.Positive(t, stats.Days)
	assert.Equal(t, stats.Days, stats.Sunsets)
	assert.GreaterOrEqual(t, stats.Hours, stats.Days*24)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[handler.HealthResponse](t, rr).Status)
}

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth_DatabaseDown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := handler.HandleHealth(downDB{}, logger)

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "unavailable", decode[handler.HealthResponse](t, rr).Status)
}
