package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelRouteAndSize(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Logger(zerolog.New(&buf)))
	r.Get("/api/v1/venues/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "Venue not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/42", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/api/v1/venues/{id}", line["route"])
	assert.Equal(t, float64(404), line["status"])
	assert.Equal(t, float64(rec.Body.Len()), line["bytes"])
	assert.Equal(t, "203.0.113.9", line["remote"])
	assert.NotEmpty(t, line["request_id"])
}

func TestTimeout_AnswersWithEnvelope(t *testing.T) {
	h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"code":503,"status":"error","message":"Request timed out"}`, rec.Body.String())
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", remoteIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", remoteIP(r))
}
