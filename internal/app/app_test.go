package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-sleeper/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.Level = "error"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close() })
	return a
}

func TestNew_MemoryStorageServesBookings(t *testing.T) {
	a := newTestApp(t)

	body, err := json.Marshal(map[string]interface{}{
		"seatIds":     []int{11},
		"fromStation": "ST002",
		"toStation":   "ST004",
		"contact":     map[string]string{"name": "Meera Shah", "email": "meera@example.com", "phone": "9123456780"},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestNewRouter_ServesHealth(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNew_ChannelsTransport(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.Level = "error"
	cfg.Events.Transport = config.TransportChannels

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, a.closers, 1)
	assert.NoError(t, a.close())
}

func TestRun_StopsWhenContextIsCancelled(t *testing.T) {
	a := newTestApp(t)
	a.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, a.Run(ctx))
}
